package main

import (
	"context"
	"log/slog"
	"machine"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/monitor"
)

// MAIN THREAD DUTIES
//

func main() {
	cfg := config.Default()
	logger := logging.New(machine.Serial, slog.LevelInfo) // USB CDC Serial

	if err := cfg.Validate(); err != nil {
		logger.Error("bad config", "err", err)
		return
	}

	// DeskUp host link
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})

	// SSD1306 on I2C0
	bus := machine.I2C0
	if err := bus.Configure(machine.I2CConfig{
		Frequency: cfg.I2CFrequency,
		SDA:       machine.GPIO4,
		SCL:       machine.GPIO5,
	}); err != nil {
		logger.Error("i2c configure failed", "err", err)
	}

	panel := display.NewPanel(bus, display.PanelConfig{
		Address: cfg.DisplayAddr,
		Width:   cfg.DisplayWidth,
		Height:  cfg.DisplayHeight,
	})
	if err := panel.Err(); err != nil {
		logger.Warn("display not responding", "err", err)
	}

	mon := monitor.New(uart, panel, cfg, logger)

	// Never returns
	mon.Run(context.Background())
}
