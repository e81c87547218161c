package display

import "strconv"

// Row assignments
const (
	RowTitle  = 0 // title, both layouts
	RowStatus = 1 // "User Online"
	RowIdle   = 2 // "Waiting..."
	RowUser   = 3
	RowDesk   = 4 // only when a desk number is known
	RowHeight = 5
)

// Row is one line of text destined for a display row.
type Row struct {
	Index int
	Text  string
}

// Layout composes the rows shown for each monitor phase.
type Layout struct {
	Title  string
	Active string
	Idle   string
}

// DefaultLayout returns the stock DeskUp screens.
func DefaultLayout() Layout {
	return Layout{
		Title:  "DeskUp",
		Active: "User Online",
		Idle:   "Waiting...",
	}
}

// IdleRows returns the rows shown while nobody is logged in.
func (l Layout) IdleRows() []Row {
	return []Row{
		{RowTitle, l.Title},
		{RowIdle, l.Idle},
	}
}

// HeaderRows returns the rows drawn on the login transition.
func (l Layout) HeaderRows() []Row {
	return []Row{
		{RowTitle, l.Title},
		{RowStatus, l.Active},
	}
}

// ActiveRows returns the full frame for a logged-in user.
// The desk row is omitted when desk is 0.
func (l Layout) ActiveRows(name string, desk, height int) []Row {
	rows := make([]Row, 0, 5)
	rows = append(rows, l.HeaderRows()...)
	rows = append(rows, Row{RowUser, "User: " + name})
	if desk > 0 {
		rows = append(rows, Row{RowDesk, "Desk: " + strconv.Itoa(desk)})
	}
	rows = append(rows, Row{RowHeight, "Height: " + strconv.Itoa(height) + " cm"})
	return rows
}
