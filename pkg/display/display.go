//go:build !nodisplay

// Package display draws the desk monitor's text rows. The Panel renders them
// on an SSD1306 OLED; Terminal and Recorder stand in for it on a host.
//
// Row layout on a 128x64 panel with the Org01 font: 8 rows of 8 pixels,
// 21 columns of 6 pixels.
//
// To build firmware without the panel driver, use:
//
//	tinygo build -tags=nodisplay -target=pico -o firmware.uf2 .
package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
)

const (
	charWidth  = 6
	charHeight = 8

	// baseline offset of Org01 glyphs inside an 8 pixel row
	baseline = 6
)

// Colors for monochrome display
var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

// PanelConfig describes the attached SSD1306.
type PanelConfig struct {
	Address uint16
	Width   int16
	Height  int16
}

// Panel is a Surface backed by an SSD1306 over I2C.
type Panel struct {
	device *ssd1306.Device
	font   *tinyfont.Font
	width  int16
	height int16
	buffer [Rows]string
	dirty  bool
	err    error
}

// NewPanel configures the display on an already configured I2C bus and
// clears it.
func NewPanel(bus drivers.I2C, cfg PanelConfig) *Panel {
	if cfg.Width == 0 {
		cfg.Width = 128
	}
	if cfg.Height == 0 {
		cfg.Height = 64
	}

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address: cfg.Address,
		Width:   cfg.Width,
		Height:  cfg.Height,
	})
	dev.ClearDisplay()

	return &Panel{
		device: dev,
		font:   &tinyfont.Org01,
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Clear blanks the frame buffer. Nothing reaches the panel until Flush.
func (p *Panel) Clear() {
	p.buffer = [Rows]string{}
	p.device.ClearBuffer()
	p.dirty = true
}

// WriteRow rewrites a full row in the frame buffer.
func (p *Panel) WriteRow(text string, row int) {
	if row < 0 || row >= Rows || int16(row*charHeight) >= p.height {
		return
	}
	text = Fit(text, p.columns())
	p.buffer[row] = text
	p.clearRow(row)
	tinyfont.WriteLine(p.device, p.font, 0, int16(row*charHeight+baseline), text, white)
	p.dirty = true
}

// Flush pushes the frame buffer to the panel if it changed since the last
// Flush. Bus errors are also kept for Err.
func (p *Panel) Flush() error {
	if !p.dirty {
		return nil
	}
	p.dirty = false
	if err := p.device.Display(); err != nil {
		p.err = err
		return err
	}
	return nil
}

// Err returns the last bus error seen while pushing a frame, if any.
func (p *Panel) Err() error {
	return p.err
}

// columns is the number of glyphs that fit across the panel.
func (p *Panel) columns() int {
	n := int(p.width) / charWidth
	if n > Columns {
		n = Columns
	}
	return n
}

// clearRow clears the pixel band of a single row in the frame buffer.
func (p *Panel) clearRow(row int) {
	yStart := int16(row * charHeight)
	for y := yStart; y < yStart+charHeight; y++ {
		for x := int16(0); x < p.width; x++ {
			p.device.SetPixel(x, y, black)
		}
	}
}
