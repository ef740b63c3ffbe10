package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()

	initialURL := "mem://localhost/loader/initial.list"
	arrivalURL := "mem://localhost/loader/arrivals.list"

	initial := `
processes P1 2 P2
resources R1 R2
mailboxes m1

process P1
(req R1)
(rel R1)

process P2
(send m1 ping)
`
	arrivals := `
processes P3 7
resources R3

process P3
(req R3)
(rel R3)
`
	require.Nil(t, fs.Upload(ctx, initialURL, file.DefaultFileOsMode, strings.NewReader(initial)))
	require.Nil(t, fs.Upload(ctx, arrivalURL, file.DefaultFileOsMode, strings.NewReader(arrivals)))

	service := New(fs)
	err := service.Load(ctx, initialURL, arrivalURL)
	require.Nil(t, err)

	processes := service.InitialProcesses()
	require.Equal(t, 2, len(processes))
	assert.Equal(t, "P1", processes[0].Name())
	assert.Equal(t, 2, processes[0].Priority)
	assert.Equal(t, "P2", processes[1].Name())
	assert.Equal(t, 0, processes[1].Priority)
	assert.Equal(t, 1, processes[0].Image.ID)
	assert.Equal(t, 2, processes[1].Image.ID)

	arrived := service.PollNewArrival()
	require.NotNil(t, arrived)
	assert.Equal(t, "P3", arrived.Name())
	assert.Equal(t, 7, arrived.Priority)
	assert.Nil(t, service.PollNewArrival())

	table := service.ResourceTable()
	assert.Equal(t, 3, table.Len())
	assert.True(t, table.IsAvailable("R3"))

	require.Equal(t, 1, len(service.Mailboxes()))
	assert.Equal(t, "m1", service.Mailboxes()[0].Name)
	assert.Equal(t, 3, service.ProcessCount())
}

func TestService_LoadMissingFile(t *testing.T) {
	service := New(afs.New())
	err := service.Load(context.Background(), "mem://localhost/loader/absent.list", "")
	assert.NotNil(t, err)
}
