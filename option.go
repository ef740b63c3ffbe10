package procsim

import (
	"github.com/caedentelfer/procsim/service/event"
	"github.com/caedentelfer/procsim/service/loader"
	"github.com/caedentelfer/procsim/service/logsink"
	"github.com/caedentelfer/procsim/service/messaging"
	"github.com/viant/afs"
)

// Option customizes the simulator service.
type Option func(s *Service)

// WithConfig sets the configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLoader sets the workload feed, bypassing the configured source.
func WithLoader(service loader.Service) Option {
	return func(s *Service) {
		s.loader = service
	}
}

// WithEventQueue sets the event queue.
func WithEventQueue(queue messaging.Queue[event.Event]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

// WithEventHandler adds an event handler alongside the log sink.
func WithEventHandler(handler event.Handler) Option {
	return func(s *Service) {
		s.handlers = append(s.handlers, handler)
	}
}

// WithLogSink sets the log sink.
func WithLogSink(sink *logsink.Service) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithFS sets the file system service used for workload and log files.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}
