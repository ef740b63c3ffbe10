package procsim

import (
	"context"
	"fmt"

	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/allocator"
	"github.com/caedentelfer/procsim/service/event"
	"github.com/caedentelfer/procsim/service/loader"
	"github.com/caedentelfer/procsim/service/loader/generator"
	"github.com/caedentelfer/procsim/service/loader/parser"
	"github.com/caedentelfer/procsim/service/logsink"
	"github.com/caedentelfer/procsim/service/messaging"
	mmemory "github.com/caedentelfer/procsim/service/messaging/memory"
	"github.com/caedentelfer/procsim/service/scheduler"
	"github.com/caedentelfer/procsim/tracing"
	"github.com/viant/afs"
)

// Service assembles a simulation: a workload feed, the resource allocator,
// the dispatcher and the event plumbing.
type Service struct {
	config   *Config
	fs       afs.Service
	loader   loader.Service
	queue    messaging.Queue[event.Event]
	handlers []event.Handler
	sink     *logsink.Service
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	return s.ensureBaseSetup()
}

func (s *Service) ensureBaseSetup() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.queue == nil {
		s.queue = mmemory.NewQueue[event.Event](mmemory.DefaultConfig())
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.sink == nil && len(s.handlers) == 0 {
		s.sink = logsink.New(logsink.WithFS(s.fs), logsink.WithLogURL(s.config.Log.URL))
	}
	if s.sink != nil {
		s.handlers = append(s.handlers, s.sink.Handle)
	}
	if s.config.Trace.Enabled {
		if err := tracing.Init("procsim", "1.0", s.config.Trace.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	return nil
}

// New creates a simulator service.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

// Runtime loads the configured workload and returns a runnable simulation.
func (s *Service) Runtime(ctx context.Context) (*Runtime, error) {
	workload := s.loader
	if workload == nil {
		var err error
		if workload, err = s.loadWorkload(ctx); err != nil {
			return nil, err
		}
	}
	if len(workload.InitialProcesses()) == 0 {
		return nil, loader.ErrNoProcesses
	}
	queues := execution.NewQueueSet(workload.InitialProcesses())
	events := event.NewPublisher(s.queue)
	alloc := allocator.New(workload.ResourceTable(), queues, events)
	dispatcher, err := scheduler.New(s.config.Scheduler, queues, alloc, workload, events)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		service:    s,
		workload:   workload,
		queues:     queues,
		dispatcher: dispatcher,
		listener:   event.NewListener(s.queue, s.handle),
	}, nil
}

func (s *Service) loadWorkload(ctx context.Context) (loader.Service, error) {
	if s.config.Workload.SourceURL != "" {
		fileLoader := parser.New(s.fs)
		if err := fileLoader.Load(ctx, s.config.Workload.SourceURL, s.config.Workload.ArrivalURL); err != nil {
			return nil, err
		}
		return fileLoader, nil
	}
	generatorConfig := generator.DefaultConfig()
	if s.config.Workload.Generator != nil {
		generatorConfig = *s.config.Workload.Generator
	}
	generatorConfig.PriorityScheduling = s.config.Scheduler.Algorithm == scheduler.AlgorithmPriority
	return generator.New(generatorConfig)
}

func (s *Service) handle(anEvent *event.Event) {
	for _, handler := range s.handlers {
		handler(anEvent)
	}
}
