package manager

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxWait      = 30 * time.Second
	defaultPollInterval = 25 * time.Millisecond
)

var errNoLoader = errors.New("no model loader configured")

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Loader instantiates engines. Required for Load to succeed.
	Loader Loader
	// Tracker counts in-flight transcriptions. A fresh tracker is created when nil.
	Tracker *Tracker
	// Publisher receives lifecycle events. Defaults to a no-op publisher.
	Publisher EventPublisher
	// Logger for lifecycle logs. Defaults to zerolog.Nop().
	Logger *zerolog.Logger
	// MaxWait bounds how long Get waits for a model another caller is loading.
	MaxWait time.Duration
	// PollInterval is the retry interval used by Get and Close.
	PollInterval time.Duration
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		models:    newHandleMap(),
		loader:    cfg.Loader,
		tracker:   cfg.Tracker,
		publisher: cfg.Publisher,
		log:       zerolog.Nop(),
		maxWait:   cfg.MaxWait,
		poll:      cfg.PollInterval,
	}
	// Apply defaults if unset
	if m.loader == nil {
		m.loader = LoaderFunc(func(context.Context, string) (Engine, error) { return nil, errNoLoader })
	}
	if m.tracker == nil {
		m.tracker = NewTracker()
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	if m.maxWait <= 0 {
		m.maxWait = defaultMaxWait
	}
	if m.poll <= 0 {
		m.poll = defaultPollInterval
	}
	m.startTime = time.Now()
	return m
}
