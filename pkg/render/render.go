// Package render decides when and what to draw on the monitor's display.
// Display writes are proportional to state changes, not to poll cycles.
package render

import (
	"time"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/session"
)

// DefaultSettleDelay is how long the login screen dwells before the first
// full frame.
const DefaultSettleDelay = time.Second

// Phase is the controller's login state.
type Phase uint8

const (
	LoggedOut Phase = iota
	LoggedIn
)

func (p Phase) String() string {
	if p == LoggedIn {
		return "logged-in"
	}
	return "logged-out"
}

// Snapshot is the part of the session last pushed to the display.
type Snapshot struct {
	Valid      bool
	Height     int
	DeskNumber int
	UserName   string
}

// Controller owns the display and the last rendered snapshot.
type Controller struct {
	surface display.Surface
	layout  display.Layout
	logger  logging.Logger
	settle  time.Duration
	sleep   func(time.Duration)

	phase    Phase
	last     Snapshot
	redraws  int
	switches int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLayout overrides the row texts.
func WithLayout(l display.Layout) Option {
	return func(c *Controller) {
		c.layout = l
	}
}

// WithSettleDelay sets the dwell time after the login transition.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.settle = d
	}
}

// WithSleep replaces time.Sleep, mainly for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Controller) {
		c.sleep = sleep
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New creates a controller in the LoggedOut phase.
func New(surface display.Surface, opts ...Option) *Controller {
	c := &Controller{
		surface: surface,
		layout:  display.DefaultLayout(),
		logger:  logging.Default(),
		settle:  DefaultSettleDelay,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start draws the idle screen shown at power-on.
func (c *Controller) Start() {
	c.drawRows(c.layout.IdleRows())
	c.flush()
}

// Evaluate compares state with what is on screen and redraws if needed.
func (c *Controller) Evaluate(state session.State) {
	loggedIn := state.LoggedIn()

	if loggedIn && c.phase == LoggedOut {
		c.phase = LoggedIn
		c.switches++
		c.logger.Info("user detected", "user", state.UserID())
		c.surface.Clear()
		c.drawRows(c.layout.HeaderRows())
		c.flush()
		if c.settle > 0 {
			c.sleep(c.settle)
		}
	} else if !loggedIn && c.phase == LoggedIn {
		c.phase = LoggedOut
		c.switches++
		c.last = Snapshot{}
		c.logger.Info("user logged out")
		c.surface.Clear()
		c.drawRows(c.layout.IdleRows())
		c.flush()
		return
	}

	if c.phase != LoggedIn {
		return
	}

	current := Snapshot{
		Valid:      true,
		Height:     state.Height(),
		DeskNumber: state.DeskNumber(),
		UserName:   state.UserName(),
	}
	if current == c.last {
		return
	}

	c.logger.Debug("redraw", "height", current.Height, "desk", current.DeskNumber, "user", current.UserName)
	c.surface.Clear()
	c.drawRows(c.layout.ActiveRows(current.UserName, current.DeskNumber, current.Height))
	c.flush()
	c.last = current
	c.redraws++
}

// Phase returns the current login phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Last returns the snapshot currently on screen.
func (c *Controller) Last() Snapshot {
	return c.last
}

// Redraws returns the number of full logged-in frames drawn.
func (c *Controller) Redraws() int {
	return c.redraws
}

// Transitions returns the number of login and logout transitions.
func (c *Controller) Transitions() int {
	return c.switches
}

// flush completes a frame on surfaces that buffer writes.
func (c *Controller) flush() {
	f, ok := c.surface.(display.Flusher)
	if !ok {
		return
	}
	if err := f.Flush(); err != nil {
		c.logger.Warn("display flush failed", "err", err)
	}
}

func (c *Controller) drawRows(rows []display.Row) {
	for _, r := range rows {
		c.surface.WriteRow(r.Text, r.Index)
	}
}
