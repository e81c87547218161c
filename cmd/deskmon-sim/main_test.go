package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
)

func testConfig() config.Monitor {
	cfg := config.Default()
	cfg.PollInterval = time.Millisecond
	cfg.SettleDelay = 0
	return cfg
}

func TestChanPort(t *testing.T) {
	p := newChanPort(8)
	if p.Buffered() != 0 {
		t.Errorf("Expected empty port, got %d", p.Buffered())
	}
	if _, err := p.ReadByte(); err == nil {
		t.Error("Expected error reading empty port")
	}
	if p.drained() {
		t.Error("Port should not be drained before input ends")
	}

	if err := p.fill(context.Background(), strings.NewReader("ab")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Buffered() != 2 {
		t.Errorf("Expected 2 buffered bytes, got %d", p.Buffered())
	}
	if p.drained() {
		t.Error("Port with pending bytes is not drained")
	}

	b, _ := p.ReadByte()
	if b != 'a' {
		t.Errorf("Expected 'a', got %q", b)
	}
	p.ReadByte()
	if !p.drained() {
		t.Error("Expected drained port after input end")
	}
}

func TestRunMonitorRendersSession(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("LOGIN:7\nUSER:Alice\nDESK:3\nHEIGHT:115\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := runMonitor(ctx, in, &out, testConfig(), logging.Discard()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	frame := out.String()
	for _, expected := range []string{"Waiting...", "User: Alice", "Desk: 3", "Height: 115 cm"} {
		if !strings.Contains(frame, expected) {
			t.Errorf("Expected output to contain '%s'", expected)
		}
	}
}

func TestRunMonitorQuietInput(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("noise\nmore noise\n")

	if err := runMonitor(context.Background(), in, &out, testConfig(), logging.Discard()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Only the power-on frame.
	if n := strings.Count(out.String(), "Waiting..."); n != 1 {
		t.Errorf("Expected a single frame, got %d", n)
	}
}
