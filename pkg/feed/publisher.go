// Package feed is the host side of the serial link. It turns observations of
// the active desk session into protocol lines, writing only what changed.
package feed

import (
	"fmt"
	"io"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/protocol"
)

// Observation is one sample of the host's session source.
// UserID <= 0 means nobody is logged in.
type Observation struct {
	UserID int
	Name   string
	Desk   int
	Height int // cm, 0 when the desk height is unknown
}

// Publisher writes protocol lines for observation changes.
type Publisher struct {
	w      io.Writer
	logger logging.Logger

	user   int
	name   string
	desk   int
	height int
}

// NewPublisher creates a publisher writing to w. A nil logger falls back to
// logging.Default.
func NewPublisher(w io.Writer, logger logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{w: w, logger: logger}
}

// Publish compares o with what was last sent and writes the difference.
// It returns the number of lines written.
func (p *Publisher) Publish(o Observation) (int, error) {
	var events []protocol.Event

	if o.UserID <= 0 {
		if p.user == 0 {
			return 0, nil
		}
		events = append(events, protocol.Event{Kind: protocol.KindLogout})
		p.Reset()
		p.logger.Info("user disconnected")
		return p.write(events)
	}

	if o.UserID != p.user {
		// LOGIN alone leaves the previous user's name and desk on the device.
		if p.user != 0 {
			events = append(events, protocol.Event{Kind: protocol.KindLogout})
			p.Reset()
			p.logger.Info("user disconnected")
		}
		events = append(events, protocol.Event{Kind: protocol.KindLogin, Value: o.UserID})
		p.user = o.UserID
		p.logger.Info("user connected", "user", o.UserID)
	}
	if o.Name != "" && o.Name != p.name {
		events = append(events, protocol.Event{Kind: protocol.KindUserName, Text: o.Name})
		p.name = o.Name
	}
	if o.Desk != p.desk {
		events = append(events, protocol.Event{Kind: protocol.KindDesk, Value: o.Desk})
		p.desk = o.Desk
	}
	if o.Height > 0 && o.Height != p.height {
		events = append(events, protocol.Event{Kind: protocol.KindHeight, Value: o.Height})
		p.height = o.Height
		p.logger.Debug("height updated", "height", o.Height)
	}

	return p.write(events)
}

// Reset forgets everything sent so the next observation is published in full.
func (p *Publisher) Reset() {
	p.user, p.name, p.desk, p.height = 0, "", 0, 0
}

func (p *Publisher) write(events []protocol.Event) (int, error) {
	for i, e := range events {
		if _, err := io.WriteString(p.w, protocol.Encode(e)); err != nil {
			return i, fmt.Errorf("write %s: %w", e, err)
		}
	}
	return len(events), nil
}
