package feed

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/protocol"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/session"
)

func newTestPublisher() (*Publisher, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPublisher(&buf, logging.Discard()), &buf
}

func TestPublishSendsOnlyChanges(t *testing.T) {
	p, buf := newTestPublisher()

	steps := []struct {
		obs      Observation
		expected string
	}{
		{Observation{}, ""},
		{Observation{UserID: 7, Name: "Alice", Desk: 3, Height: 115}, "LOGIN:7\nUSER:Alice\nDESK:3\nHEIGHT:115\n"},
		{Observation{UserID: 7, Name: "Alice", Desk: 3, Height: 115}, ""},
		{Observation{UserID: 7, Name: "Alice", Desk: 3, Height: 120}, "HEIGHT:120\n"},
		{Observation{UserID: 0}, "LOGOUT\n"},
		{Observation{UserID: 0}, ""},
		{Observation{UserID: 7, Name: "Alice", Desk: 3, Height: 120}, "LOGIN:7\nUSER:Alice\nDESK:3\nHEIGHT:120\n"},
	}

	for i, s := range steps {
		buf.Reset()
		if _, err := p.Publish(s.obs); err != nil {
			t.Fatalf("Step %d: unexpected error: %v", i, err)
		}
		if buf.String() != s.expected {
			t.Errorf("Step %d: expected %q, got %q", i, s.expected, buf.String())
		}
	}
}

func TestPublishUserSwitch(t *testing.T) {
	p, buf := newTestPublisher()
	p.Publish(Observation{UserID: 1, Name: "Alice", Desk: 2, Height: 100})
	buf.Reset()

	n, err := p.Publish(Observation{UserID: 2, Name: "Bob", Desk: 2, Height: 100})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := "LOGOUT\nLOGIN:2\nUSER:Bob\nDESK:2\nHEIGHT:100\n"
	if n != 5 || buf.String() != expected {
		t.Errorf("Expected a full session for the new user, got %d lines %q", n, buf.String())
	}
}

// replay applies published lines to a fresh device session.
func replay(wire string) session.State {
	s := session.New()
	for _, line := range strings.Split(wire, "\n") {
		if line != "" {
			s.Apply(protocol.Decode(line))
		}
	}
	return s
}

func TestUserSwitchWithoutNameResetsDevice(t *testing.T) {
	p, buf := newTestPublisher()
	p.Publish(Observation{UserID: 7, Name: "Alice", Desk: 3, Height: 115})
	p.Publish(Observation{UserID: 8, Desk: 3, Height: 115})

	s := replay(buf.String())
	if s.UserID() != 8 {
		t.Errorf("UserID: expected 8, got %d", s.UserID())
	}
	if s.UserName() != session.DefaultName {
		t.Errorf("UserName: expected '%s', got '%s'", session.DefaultName, s.UserName())
	}
	if s.DeskNumber() != 3 || s.Height() != 115 {
		t.Errorf("Expected desk 3 and height 115, got %d and %d", s.DeskNumber(), s.Height())
	}
}

func TestUserSwitchToDesklessUser(t *testing.T) {
	p, buf := newTestPublisher()
	p.Publish(Observation{UserID: 1, Name: "Alice", Desk: 4, Height: 100})
	p.Publish(Observation{UserID: 2, Name: "Bob", Height: 100})

	s := replay(buf.String())
	if s.UserName() != "Bob" || s.DeskNumber() != 0 {
		t.Errorf("Expected Bob without a desk, got %s at desk %d", s.UserName(), s.DeskNumber())
	}
}

func TestPublishSkipsUnknownHeight(t *testing.T) {
	p, buf := newTestPublisher()
	p.Publish(Observation{UserID: 3})

	if buf.String() != "LOGIN:3\n" {
		t.Errorf("Expected only a login line, got %q", buf.String())
	}
}

func TestPublishedLinesDecode(t *testing.T) {
	p, buf := newTestPublisher()
	p.Publish(Observation{UserID: 9, Name: "Zoë", Desk: 12, Height: 98})

	expected := []protocol.Kind{protocol.KindLogin, protocol.KindUserName, protocol.KindDesk, protocol.KindHeight}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d", len(expected), len(lines))
	}
	for i, line := range lines {
		if k := protocol.Decode(line).Kind; k != expected[i] {
			t.Errorf("Line %d (%q): expected kind %d, got %d", i, line, expected[i], k)
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("port closed")
}

func TestPublishWriteError(t *testing.T) {
	p := NewPublisher(failWriter{}, logging.Discard())
	n, err := p.Publish(Observation{UserID: 1, Height: 100})
	if err == nil {
		t.Fatal("Expected write error")
	}
	if n != 0 {
		t.Errorf("Expected 0 lines written, got %d", n)
	}
}

const sampleScript = `
steps:
  - {user_id: 7, name: Alice, desk: 3, height: 115, hold: 2s}
  - {user_id: 7, name: Alice, desk: 3, height: 120, hold: 500ms}
  - {user_id: 0, hold: 1s}
`

func TestLoadScript(t *testing.T) {
	script, err := LoadScript(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(script.Steps) != 3 {
		t.Fatalf("Expected 3 steps, got %d", len(script.Steps))
	}

	first := script.Steps[0]
	if first.UserID != 7 || first.Name != "Alice" || first.Desk != 3 || first.Height != 115 {
		t.Errorf("Unexpected first step: %+v", first)
	}
	if first.Hold != 2*time.Second {
		t.Errorf("Expected hold 2s, got %v", first.Hold)
	}
	if script.Steps[1].Hold != 500*time.Millisecond {
		t.Errorf("Expected hold 500ms, got %v", script.Steps[1].Hold)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"empty", "steps: []\n", ErrEmptyScript},
		{"no steps key", "other: 1\n", ErrEmptyScript},
		{"negative hold", "steps:\n  - {user_id: 1, hold: -1s}\n", ErrInvalidStep},
		{"negative height", "steps:\n  - {user_id: 1, height: -5}\n", ErrInvalidStep},
	}

	for _, tt := range tests {
		_, err := LoadScript(strings.NewReader(tt.input))
		if !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
	}

	if _, err := LoadScript(strings.NewReader(":::not valid yaml")); err == nil {
		t.Error("Expected parse error for malformed YAML")
	}
}

func TestPlay(t *testing.T) {
	script, err := LoadScript(strings.NewReader(sampleScript))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	p, buf := newTestPublisher()

	var holds []time.Duration
	if err := Play(context.Background(), script, p, func(d time.Duration) { holds = append(holds, d) }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "LOGIN:7\nUSER:Alice\nDESK:3\nHEIGHT:115\nHEIGHT:120\nLOGOUT\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
	if len(holds) != 3 || holds[0] != 2*time.Second {
		t.Errorf("Unexpected holds: %v", holds)
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	script, _ := LoadScript(strings.NewReader(sampleScript))
	p, buf := newTestPublisher()
	ctx, cancel := context.WithCancel(context.Background())

	err := Play(ctx, script, p, func(time.Duration) { cancel() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if buf.String() != "LOGIN:7\nUSER:Alice\nDESK:3\nHEIGHT:115\n" {
		t.Errorf("Only the first step should be published, got %q", buf.String())
	}
}
