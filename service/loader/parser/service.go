package parser

import (
	"context"
	"fmt"

	"github.com/caedentelfer/procsim/model"
	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/loader"
	"github.com/viant/afs"
)

var _ loader.Service = (*Service)(nil)

// Service loads a workload from process description files and feeds it to
// the dispatcher. The first file holds the initial processes; an optional
// second file holds processes that arrive while the simulation runs, doled
// out one per poll.
type Service struct {
	fs        afs.Service
	initial   []*execution.PCB
	arrivals  []*execution.PCB
	table     *model.Table
	mailboxes []model.Mailbox
	count     int
}

// New creates a description file loader.
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, table: model.NewTable()}
}

// Load reads and parses the description files. arrivalURL may be empty.
// Resources and mailboxes from both files share one table.
func (s *Service) Load(ctx context.Context, initialURL, arrivalURL string) error {
	initial, err := s.loadFile(ctx, initialURL)
	if err != nil {
		return err
	}
	s.initial = initial
	if arrivalURL != "" {
		arrivals, err := s.loadFile(ctx, arrivalURL)
		if err != nil {
			return err
		}
		s.arrivals = arrivals
	}
	return nil
}

func (s *Service) loadFile(ctx context.Context, URL string) ([]*execution.PCB, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load process description %v: %w", URL, err)
	}
	definition, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse process description %v: %w", URL, err)
	}
	var result []*execution.PCB
	for _, declared := range definition.Processes {
		s.count++
		image := &model.Image{ID: s.count, Name: declared.Name, Program: declared.Program}
		result = append(result, execution.NewPCB(image, declared.Priority))
	}
	for _, name := range definition.Resources {
		s.table.Add(name)
	}
	for _, name := range definition.Mailboxes {
		s.mailboxes = append(s.mailboxes, model.Mailbox{Name: name})
	}
	return result, nil
}

// InitialProcesses returns the processes present when the simulation starts.
func (s *Service) InitialProcesses() []*execution.PCB {
	return s.initial
}

// PollNewArrival hands out at most one pending arrival per call.
func (s *Service) PollNewArrival() *execution.PCB {
	if len(s.arrivals) == 0 {
		return nil
	}
	next := s.arrivals[0]
	s.arrivals = s.arrivals[1:]
	return next
}

// ResourceTable returns the shared resource table.
func (s *Service) ResourceTable() *model.Table {
	return s.table
}

// Mailboxes returns the declared mailboxes.
func (s *Service) Mailboxes() []model.Mailbox {
	return s.mailboxes
}

// ProcessCount returns the total number of loaded processes.
func (s *Service) ProcessCount() int {
	return s.count
}
