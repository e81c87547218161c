package display

import "strings"

const (
	// Rows is the number of text rows on the panel.
	Rows = 8

	// Columns is the number of characters per row.
	Columns = 21
)

// Surface is the sink the render controller draws on. Every WriteRow rewrites
// the whole row; text is clipped or padded to Columns. Writes are best-effort.
type Surface interface {
	Clear()
	WriteRow(text string, row int)
}

// Flusher is implemented by surfaces that buffer writes until a frame is
// complete.
type Flusher interface {
	Flush() error
}

// Fit clips s to cols characters and pads it with spaces to exactly cols.
// Bytes outside printable ASCII are replaced with '?'.
func Fit(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	b := make([]byte, cols)
	n := 0
	for i := 0; i < len(s) && n < cols; i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			c = '?'
		}
		b[n] = c
		n++
	}
	for ; n < cols; n++ {
		b[n] = ' '
	}
	return string(b)
}

// OpKind distinguishes recorded surface operations.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpWrite
)

// Op is one recorded surface call.
type Op struct {
	Kind OpKind
	Row  int
	Text string
}

// Recorder is an in-memory Surface. It keeps the visible rows and every
// operation issued since the last Reset.
type Recorder struct {
	rows    [Rows]string
	ops     []Op
	flushes int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Clear blanks every row.
func (r *Recorder) Clear() {
	r.rows = [Rows]string{}
	r.ops = append(r.ops, Op{Kind: OpClear})
}

// WriteRow stores text on row. Out-of-range rows are ignored.
func (r *Recorder) WriteRow(text string, row int) {
	if row < 0 || row >= Rows {
		return
	}
	r.rows[row] = strings.TrimRight(Fit(text, Columns), " ")
	r.ops = append(r.ops, Op{Kind: OpWrite, Row: row, Text: text})
}

// Row returns the visible, right-trimmed text of row.
func (r *Recorder) Row(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	return r.rows[row]
}

// Ops returns the operations recorded since the last Reset.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Clears counts recorded Clear operations.
func (r *Recorder) Clears() int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == OpClear {
			n++
		}
	}
	return n
}

// Flush counts a completed frame.
func (r *Recorder) Flush() error {
	r.flushes++
	return nil
}

// Flushes counts Flush calls since the last Reset.
func (r *Recorder) Flushes() int {
	return r.flushes
}

// Reset forgets recorded operations but keeps the visible rows.
func (r *Recorder) Reset() {
	r.ops = nil
	r.flushes = 0
}
