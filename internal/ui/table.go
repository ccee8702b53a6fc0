package ui

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RoomRow is one room as shown by `peerlink rooms`. Join keys are never shown.
type RoomRow struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// RoomTableView renders rooms as a table. Age is measured against now.
func RoomTableView(rooms []RoomRow, now time.Time) string {
	if len(rooms) == 0 {
		return MutedStyle.Render("No active rooms")
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Name", "Room ID", "Age"})

	for i, r := range rooms {
		t.AppendRow(table.Row{i + 1, TruncateString(r.Name, 40), r.ID, FormatAge(now.Sub(r.CreatedAt))})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d room(s)", len(rooms))})

	return t.Render()
}

// RenderRoomTable prints the room table with a title.
func RenderRoomTable(rooms []RoomRow, now time.Time) {
	fmt.Println(TitleStyle.Render(IconRoom + " Active rooms"))
	fmt.Println(RoomTableView(rooms, now))
}

// FormatAge renders a duration like "4m05s", rounded to seconds.
func FormatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// TruncateString shortens s to max runes, marking the cut with an ellipsis.
func TruncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
