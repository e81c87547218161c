// Package serial turns the raw byte stream from the desk controller link into
// complete, terminator-delimited lines.
package serial

// DefaultCapacity is the size of the line buffer, including the terminator slot.
// Lines longer than DefaultCapacity-1 bytes are truncated.
const DefaultCapacity = 256

// Port is the receive side of a byte-oriented serial channel.
// machine.UART and machine.USBCDC both satisfy it.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
}

// Assembler accumulates bytes into lines using a fixed-size buffer.
type Assembler struct {
	inIndex  int
	overflow int
	dropped  int
	inBuffer [DefaultCapacity]byte
	limit    int
}

// NewAssembler creates an assembler that keeps at most capacity-1 bytes per line.
// A capacity outside [2, DefaultCapacity] falls back to DefaultCapacity.
func NewAssembler(capacity int) *Assembler {
	if capacity < 2 || capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Assembler{limit: capacity - 1}
}

// Feed appends one byte. It returns a line and true only when b is a
// terminator ('\n' or '\r') and the buffer holds at least one byte.
// Bytes past capacity are dropped until the next terminator.
func (a *Assembler) Feed(b byte) (string, bool) {
	if a.limit == 0 {
		a.limit = DefaultCapacity - 1
	}

	if b == '\n' || b == '\r' {
		if a.inIndex == 0 {
			return "", false
		}
		line := string(a.inBuffer[:a.inIndex])
		a.inIndex = 0
		a.dropped = a.overflow
		a.overflow = 0
		return line, true
	}

	if a.inIndex >= a.limit {
		a.overflow++
		return "", false
	}

	a.inBuffer[a.inIndex] = b
	a.inIndex++
	return "", false
}

// Pending returns the number of bytes buffered for the current, unterminated line.
func (a *Assembler) Pending() int {
	return a.inIndex
}

// Dropped returns the number of bytes that were discarded from the most
// recently returned line because the buffer was full.
func (a *Assembler) Dropped() int {
	return a.dropped
}

// Capacity returns the buffer capacity, terminator slot included.
func (a *Assembler) Capacity() int {
	if a.limit == 0 {
		return DefaultCapacity
	}
	return a.limit + 1
}

// Drain feeds every byte currently available on port through asm and calls
// onLine for each completed line, in arrival order. It never blocks: it stops
// as soon as the port reports nothing buffered or a read fails.
// It returns the number of bytes consumed.
func Drain(port Port, asm *Assembler, onLine func(line string)) int {
	n := 0
	for port.Buffered() > 0 {
		b, err := port.ReadByte()
		if err != nil {
			break
		}
		n++
		if line, ok := asm.Feed(b); ok {
			onLine(line)
		}
	}
	return n
}
