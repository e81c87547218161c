// Package protocol decodes the line-oriented status protocol sent by the
// DeskUp host to the desk monitor.
//
// Line format (terminator '\n' or '\r', prefixes are case-sensitive):
//
//	LOGIN:<int>     active user id
//	USER:<text>     display name of the active user
//	LOGOUT          session ended (trailing content is ignored)
//	HEIGHT:<int>    desk height in centimeters
//	DESK:<int>      desk number
//
// Anything else decodes to KindUnknown. The device never answers.
package protocol

import (
	"math"
	"strconv"
	"strings"
)

// Line prefixes.
const (
	PrefixLogin  = "LOGIN:"
	PrefixUser   = "USER:"
	PrefixLogout = "LOGOUT"
	PrefixHeight = "HEIGHT:"
	PrefixDesk   = "DESK:"
)

// Kind identifies the decoded meaning of one line.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindLogin
	KindUserName
	KindLogout
	KindHeight
	KindDesk
)

// Event is the decoded form of a single line.
// Value carries the integer payload of Login, Height and Desk events;
// Text carries the name of a UserName event.
type Event struct {
	Kind  Kind
	Value int
	Text  string
}

// Decode classifies a complete line. It is total: every input yields exactly
// one Event, KindUnknown for anything that matches no prefix.
// Numeric payloads are parsed permissively; a payload with no leading digits is 0.
func Decode(line string) Event {
	switch {
	case strings.HasPrefix(line, PrefixLogin):
		return Event{Kind: KindLogin, Value: Atoi(line[len(PrefixLogin):])}
	case strings.HasPrefix(line, PrefixUser):
		return Event{Kind: KindUserName, Text: line[len(PrefixUser):]}
	case strings.HasPrefix(line, PrefixLogout):
		return Event{Kind: KindLogout}
	case strings.HasPrefix(line, PrefixHeight):
		return Event{Kind: KindHeight, Value: Atoi(line[len(PrefixHeight):])}
	case strings.HasPrefix(line, PrefixDesk):
		return Event{Kind: KindDesk, Value: Atoi(line[len(PrefixDesk):])}
	default:
		return Event{Kind: KindUnknown}
	}
}

// Encode renders e in wire form, terminator included.
// KindUnknown encodes to the empty string.
func Encode(e Event) string {
	switch e.Kind {
	case KindLogin:
		return PrefixLogin + strconv.Itoa(e.Value) + "\n"
	case KindUserName:
		return PrefixUser + stripTerminators(e.Text) + "\n"
	case KindLogout:
		return PrefixLogout + "\n"
	case KindHeight:
		return PrefixHeight + strconv.Itoa(e.Value) + "\n"
	case KindDesk:
		return PrefixDesk + strconv.Itoa(e.Value) + "\n"
	default:
		return ""
	}
}

// Atoi parses a leading decimal integer the way the desk firmware always has:
// leading spaces are skipped, an optional sign is accepted, parsing stops at
// the first non-digit and an empty digit run yields 0. Results are clamped to
// the int32 range.
func Atoi(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var n int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32+1 {
			n = math.MaxInt32 + 1
		}
	}

	if neg {
		n = -n
	} else if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n)
}

// String returns a short description suitable for logs.
func (e Event) String() string {
	switch e.Kind {
	case KindLogin:
		return "login(" + strconv.Itoa(e.Value) + ")"
	case KindUserName:
		return "user(" + e.Text + ")"
	case KindLogout:
		return "logout"
	case KindHeight:
		return "height(" + strconv.Itoa(e.Value) + ")"
	case KindDesk:
		return "desk(" + strconv.Itoa(e.Value) + ")"
	default:
		return "unknown"
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}

func stripTerminators(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		return strings.Map(func(r rune) rune {
			if r == '\r' || r == '\n' {
				return -1
			}
			return r
		}, s)
	}
	return s
}
