// Package config defines the compiled-in settings of the desk monitor.
// The device reads no configuration files; host tools may override fields
// before calling Validate.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Monitor holds every tunable of the firmware.
type Monitor struct {
	// Serial link from the DeskUp host
	BaudRate     uint32
	LineCapacity int // bytes per line, terminator slot included

	// Poll loop
	PollInterval time.Duration
	SettleDelay  time.Duration // dwell after the login screen

	// SSD1306 panel on I2C
	I2CFrequency  uint32
	DisplayAddr   uint16
	DisplayWidth  int16
	DisplayHeight int16

	// Screen texts
	Title      string
	ActiveText string
	IdleText   string
}

// Errors
var (
	ErrInvalidConfig = errors.New("invalid monitor config")
)

// Default returns the settings the firmware ships with.
func Default() Monitor {
	return Monitor{
		BaudRate:      115200,
		LineCapacity:  256,
		PollInterval:  100 * time.Millisecond,
		SettleDelay:   time.Second,
		I2CFrequency:  400000,
		DisplayAddr:   0x3C,
		DisplayWidth:  128,
		DisplayHeight: 64,
		Title:         "DeskUp",
		ActiveText:    "User Online",
		IdleText:      "Waiting...",
	}
}

// Validate checks that the settings can drive the monitor.
func (m *Monitor) Validate() error {
	switch {
	case m.LineCapacity < 2 || m.LineCapacity > 256:
		return fmt.Errorf("%w: line capacity %d not in [2, 256]", ErrInvalidConfig, m.LineCapacity)
	case m.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	case m.SettleDelay < 0:
		return fmt.Errorf("%w: settle delay must not be negative", ErrInvalidConfig)
	case m.BaudRate == 0:
		return fmt.Errorf("%w: baud rate must be set", ErrInvalidConfig)
	case m.DisplayWidth <= 0 || m.DisplayHeight <= 0 || m.DisplayHeight%8 != 0:
		return fmt.Errorf("%w: display %dx%d", ErrInvalidConfig, m.DisplayWidth, m.DisplayHeight)
	}
	return nil
}
