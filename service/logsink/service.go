// Package logsink renders simulation events as the classic scheduler log,
// writing each line live to an output writer and buffering the transcript
// for upload to a log file on Close.
package logsink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/caedentelfer/procsim/service/event"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Service formats events into the scheduler transcript.
type Service struct {
	output io.Writer
	buffer bytes.Buffer
	fs     afs.Service
	logURL string
}

// Option customizes the sink.
type Option func(*Service)

// WithOutput overrides the live output writer, stdout by default.
func WithOutput(writer io.Writer) Option {
	return func(s *Service) {
		s.output = writer
	}
}

// WithLogURL sets the destination the transcript is uploaded to on Close.
func WithLogURL(URL string) Option {
	return func(s *Service) {
		s.logURL = URL
	}
}

// WithFS overrides the file system service used for the upload.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// New creates a log sink.
func New(options ...Option) *Service {
	result := &Service{
		output: os.Stdout,
		logURL: "scheduler.log",
	}
	for _, option := range options {
		option(result)
	}
	if result.fs == nil {
		result.fs = afs.New()
	}
	return result
}

// Handle renders one event. It satisfies event.Handler.
func (s *Service) Handle(anEvent *event.Event) {
	line := s.format(anEvent)
	if line == "" {
		return
	}
	_, _ = io.WriteString(s.output, line)
	s.buffer.WriteString(line)
}

func (s *Service) format(anEvent *event.Event) string {
	switch anEvent.Kind {
	case event.KindArrival:
		return fmt.Sprintf("New process arriving: %s\n", anEvent.Process)
	case event.KindAcquired:
		return fmt.Sprintf("%s req %s: acquired\n", anEvent.Process, anEvent.Resource)
	case event.KindWaiting:
		return fmt.Sprintf("%s req %s: waiting\n", anEvent.Process, anEvent.Resource)
	case event.KindReady:
		return fmt.Sprintf("%s: ready\n", anEvent.Process)
	case event.KindReleased:
		return fmt.Sprintf("%s rel %s: released\n", anEvent.Process, anEvent.Resource)
	case event.KindReleaseError:
		return fmt.Sprintf("%s rel %s: error nothing to release\n", anEvent.Process, anEvent.Resource)
	case event.KindTerminated:
		return fmt.Sprintf("%s terminated\n", anEvent.Process)
	case event.KindSent:
		return fmt.Sprintf("%s sending message%s to mailbox %s\n", anEvent.Process, anEvent.Message, anEvent.Resource)
	case event.KindReceived:
		return fmt.Sprintf("%s received message%s from mailbox %s\n", anEvent.Process, anEvent.Message, anEvent.Resource)
	case event.KindDeadlock:
		return "Deadlock detected:\n"
	case event.KindBlocked:
		return "No deadlock detected, but blocked process(es) found:\n"
	}
	return ""
}

// Transcript returns the buffered log produced so far.
func (s *Service) Transcript() string {
	return s.buffer.String()
}

// Close uploads the buffered transcript to the configured log destination.
func (s *Service) Close(ctx context.Context) error {
	if s.logURL == "" || s.buffer.Len() == 0 {
		return nil
	}
	if err := s.fs.Upload(ctx, s.logURL, file.DefaultFileOsMode, bytes.NewReader(s.buffer.Bytes())); err != nil {
		return fmt.Errorf("failed to upload scheduler log to %v: %w", s.logURL, err)
	}
	return nil
}
