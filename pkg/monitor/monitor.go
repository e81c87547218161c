// Package monitor runs the desk monitor's poll cycle: drain the serial port,
// decode and apply every completed line, then let the render controller
// decide whether to touch the display.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/protocol"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/render"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/session"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/serial"
)

// Monitor owns every piece of mutable state of the device. A mutex makes
// event application plus render evaluation atomic with respect to queries.
type Monitor struct {
	mu       sync.Mutex
	port     serial.Port
	asm      *serial.Assembler
	state    session.State
	render   *render.Controller
	logger   logging.Logger
	interval time.Duration
	sleep    func(time.Duration)

	lines   int
	unknown int
}

// Stats counts decoded traffic since start.
type Stats struct {
	Lines   int
	Unknown int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithSleep replaces time.Sleep for both the poll interval and the login
// settle delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(m *Monitor) {
		m.sleep = sleep
	}
}

// New wires a monitor from cfg. The surface receives all display output.
// A nil logger falls back to logging.Default.
func New(port serial.Port, surface display.Surface, cfg config.Monitor, logger logging.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = logging.Default()
	}
	m := &Monitor{
		port:     port,
		asm:      serial.NewAssembler(cfg.LineCapacity),
		state:    session.New(),
		logger:   logger,
		interval: cfg.PollInterval,
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.render = render.New(surface,
		render.WithLayout(display.Layout{
			Title:  cfg.Title,
			Active: cfg.ActiveText,
			Idle:   cfg.IdleText,
		}),
		render.WithSettleDelay(cfg.SettleDelay),
		render.WithSleep(m.sleep),
		render.WithLogger(logger),
	)
	return m
}

// Start draws the power-on screen.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.render.Start()
}

// Poll runs one cycle and returns the number of lines applied.
func (m *Monitor) Poll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied := 0
	serial.Drain(m.port, m.asm, func(line string) {
		m.apply(line)
		applied++
	})
	m.render.Evaluate(m.state)
	return applied
}

// Run draws the power-on screen and polls every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	m.Start()
	m.logger.Info("monitor started", "poll", m.interval.String())
	for {
		m.Poll()
		if err := ctx.Err(); err != nil {
			return err
		}
		m.sleep(m.interval)
	}
}

func (m *Monitor) apply(line string) {
	m.lines++
	if n := m.asm.Dropped(); n > 0 {
		m.logger.Warn("line truncated", "dropped", n)
	}

	e := protocol.Decode(line)
	if e.Kind == protocol.KindUnknown {
		m.unknown++
		m.logger.Warn("unknown line", "line", line)
		return
	}
	m.state.Apply(e)
	m.logger.Debug("event", "event", e.String())
}

// CurrentUserID returns the active user id, 0 when nobody is logged in.
func (m *Monitor) CurrentUserID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserID()
}

// CurrentHeight returns the last reported height in cm.
func (m *Monitor) CurrentHeight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Height()
}

// CurrentDeskNumber returns the desk number, 0 when unknown.
func (m *Monitor) CurrentDeskNumber() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.DeskNumber()
}

// CurrentUserName returns the display name of the active user.
func (m *Monitor) CurrentUserName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.UserName()
}

// IsLoggedIn reports whether a user id greater than zero is active.
func (m *Monitor) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LoggedIn()
}

// State returns a copy of the session state.
func (m *Monitor) State() session.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stats returns traffic counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{Lines: m.lines, Unknown: m.unknown}
}
