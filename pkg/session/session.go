// Package session holds the monitor's view of who is at the desk and at what
// height. State is mutated only by applying decoded protocol events.
package session

import (
	"strings"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/protocol"
)

const (
	// NameCapacity is the size of the name field, terminator included.
	NameCapacity = 64

	// DefaultName is shown while nobody is logged in.
	DefaultName = "None"

	// DefaultHeight is the desk height in cm assumed at power-on.
	DefaultHeight = 110
)

// State is the current session record.
// The zero value is not the power-on state; use New.
type State struct {
	userID     int
	height     int
	deskNumber int
	name       [NameCapacity]byte // null-terminated if shorter
}

// New returns the power-on state: nobody logged in, default name and height.
func New() State {
	s := State{height: DefaultHeight}
	s.SetName(DefaultName)
	return s
}

// Apply updates the state for one event and reports whether anything changed.
// Logout clears user, desk and name but keeps the height.
func (s *State) Apply(e protocol.Event) bool {
	before := *s

	switch e.Kind {
	case protocol.KindLogin:
		s.userID = e.Value
	case protocol.KindUserName:
		s.SetName(e.Text)
	case protocol.KindLogout:
		s.userID = 0
		s.deskNumber = 0
		s.SetName(DefaultName)
	case protocol.KindHeight:
		s.height = e.Value
	case protocol.KindDesk:
		s.deskNumber = e.Value
	default:
		return false
	}

	return *s != before
}

// SetName stores name up to its first NUL, keeping at most NameCapacity-1
// bytes. The stored name is always null-terminated.
func (s *State) SetName(name string) {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	n := copy(s.name[:NameCapacity-1], name)
	for i := n; i < NameCapacity; i++ {
		s.name[i] = 0
	}
}

// UserName returns the stored name up to its terminator.
func (s State) UserName() string {
	for i, b := range s.name {
		if b == 0 {
			return string(s.name[:i])
		}
	}
	return string(s.name[:])
}

// UserID returns the active user id, 0 when nobody is logged in.
func (s State) UserID() int {
	return s.userID
}

// Height returns the last reported desk height in cm.
func (s State) Height() int {
	return s.height
}

// DeskNumber returns the desk number, 0 when unknown.
func (s State) DeskNumber() int {
	return s.deskNumber
}

// LoggedIn reports whether a user is active.
func (s State) LoggedIn() bool {
	return s.userID > 0
}
