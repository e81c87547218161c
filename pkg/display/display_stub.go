//go:build nodisplay

// Package display provides a no-op panel when built with the nodisplay tag.
// This saves flash by excluding the SSD1306 driver and the font.
//
// To build without display support, use:
//
//	tinygo build -tags=nodisplay -target=pico -o firmware.uf2 .
package display

import "tinygo.org/x/drivers"

// PanelConfig describes the attached SSD1306.
type PanelConfig struct {
	Address uint16
	Width   int16
	Height  int16
}

// Panel is a no-op stub when the nodisplay build tag is used.
type Panel struct{}

// NewPanel ignores the bus when the nodisplay build tag is used.
func NewPanel(bus drivers.I2C, cfg PanelConfig) *Panel {
	return &Panel{}
}

// Clear is a no-op in nodisplay mode.
func (p *Panel) Clear() {}

// WriteRow is a no-op in nodisplay mode.
func (p *Panel) WriteRow(text string, row int) {}

// Flush is a no-op in nodisplay mode.
func (p *Panel) Flush() error { return nil }

// Err always returns nil in nodisplay mode.
func (p *Panel) Err() error { return nil }
