// Package generator produces random workloads: a batch of initial processes
// plus a batch of later arrivals, sharing one resource table. Programs mix
// resource requests, paired releases and standalone releases; send/receive
// traffic is off unless enabled.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/caedentelfer/procsim/internal/clock"
	"github.com/caedentelfer/procsim/model"
	"github.com/caedentelfer/procsim/runtime/execution"
	"github.com/caedentelfer/procsim/service/loader"
)

var _ loader.Service = (*Service)(nil)

// Config controls the shape of a generated workload.
type Config struct {
	MaxInitialProcesses    int   `yaml:"maxInitialProcesses,omitempty"`
	MaxArrivalProcesses    int   `yaml:"maxArrivalProcesses,omitempty"`
	Resources              int   `yaml:"resources,omitempty"`
	Mailboxes              int   `yaml:"mailboxes,omitempty"`
	InstructionsPerProcess int   `yaml:"instructionsPerProcess,omitempty"`
	PriorityScheduling     bool  `yaml:"priorityScheduling,omitempty"`
	EnableMessaging        bool  `yaml:"enableMessaging,omitempty"`
	Seed                   int64 `yaml:"seed,omitempty"`
}

// DefaultConfig returns the default workload shape.
func DefaultConfig() Config {
	return Config{
		MaxInitialProcesses:    5,
		MaxArrivalProcesses:    5,
		Resources:              5,
		Mailboxes:              2,
		InstructionsPerProcess: 4,
	}
}

// Validate checks configuration coherence.
func (c *Config) Validate() error {
	if c.MaxInitialProcesses < 1 {
		return fmt.Errorf("maxInitialProcesses must be positive, had: %v", c.MaxInitialProcesses)
	}
	if c.Resources < 1 {
		return fmt.Errorf("resources must be positive, had: %v", c.Resources)
	}
	if c.EnableMessaging && c.Mailboxes < 1 {
		return fmt.Errorf("messaging requires at least one mailbox, had: %v", c.Mailboxes)
	}
	return nil
}

// Service is a randomly generated workload feed.
type Service struct {
	config    Config
	rnd       *rand.Rand
	initial   []*execution.PCB
	arrivals  []*execution.PCB
	table     *model.Table
	mailboxes []model.Mailbox
	count     int
}

// New generates a workload. A zero seed derives one from the wall clock.
func New(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	service := &Service{
		config: config,
		rnd:    rand.New(rand.NewSource(seed)),
		table:  model.NewTable(),
	}
	service.generate()
	return service, nil
}

func (s *Service) generate() {
	s.generateResources()
	s.generateMailboxes()
	s.initial = s.generateBatch(s.config.MaxInitialProcesses)
	if s.config.MaxArrivalProcesses > 0 {
		s.arrivals = s.generateBatch(s.config.MaxArrivalProcesses)
	}
}

// generateResources fills the table, flipping a coin per slot so that
// duplicate names show up in roughly half the workloads.
func (s *Service) generateResources() {
	for i := 0; i < s.config.Resources; i++ {
		id := i + 1
		if s.rnd.Intn(2) == 1 {
			id = i
		}
		s.table.Add(fmt.Sprintf("R%d", id))
	}
}

func (s *Service) generateMailboxes() {
	for i := 0; i < s.config.Mailboxes; i++ {
		s.mailboxes = append(s.mailboxes, model.Mailbox{Name: fmt.Sprintf("m%d", i)})
	}
}

func (s *Service) generateBatch(max int) []*execution.PCB {
	count := s.rnd.Intn(max)
	if count < 1 {
		count = 1
	}
	var result []*execution.PCB
	for i := 0; i < count; i++ {
		s.count++
		priority := 0
		if s.config.PriorityScheduling {
			priority = s.rnd.Intn(s.config.MaxInitialProcesses)*100 + 1
		}
		image := &model.Image{
			ID:      s.count,
			Name:    fmt.Sprintf("P%d", s.count),
			Program: s.generateProgram(),
		}
		result = append(result, execution.NewPCB(image, priority))
	}
	return result
}

func (s *Service) generateProgram() model.Program {
	var program model.Program
	kinds := 2
	if s.config.EnableMessaging {
		kinds = 4
	}
	for i := 0; i < s.config.InstructionsPerProcess; i++ {
		switch s.rnd.Intn(kinds) {
		case 0:
			name := fmt.Sprintf("R%d", s.rnd.Intn(s.config.Resources))
			program = append(program, model.Instruction{Kind: model.KindRequest, Resource: name})
			// a request is often followed by its release, consuming a slot
			if s.rnd.Intn(2) == 1 {
				if i++; i < s.config.InstructionsPerProcess {
					program = append(program, model.Instruction{Kind: model.KindRelease, Resource: name})
				}
			}
		case 1:
			name := fmt.Sprintf("R%d", s.rnd.Intn(s.config.Resources))
			program = append(program, model.Instruction{Kind: model.KindRelease, Resource: name})
		case 2, 3:
			mailbox := s.mailboxes[s.rnd.Intn(len(s.mailboxes))].Name
			kind := model.KindSend
			if s.rnd.Intn(2) == 1 {
				kind = model.KindReceive
			}
			program = append(program, model.Instruction{
				Kind:     kind,
				Resource: mailbox,
				Message:  fmt.Sprintf("Msg %s", mailbox),
			})
		}
	}
	return program
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

// Mailboxes returns the generated mailboxes.
func (s *Service) Mailboxes() []model.Mailbox {
	return s.mailboxes
}

// ProcessCount returns the total number of generated processes.
func (s *Service) ProcessCount() int {
	return s.count
}
