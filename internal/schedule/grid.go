package schedule

import "fmt"

// The operating window is fixed: every day exposes half-hour slots
// from 09:00 to 17:00, seven days a week.  Day indices follow
// time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
const (
    OpenHour    = 9
    CloseHour   = 17
    SlotMinutes = 30
    SlotsPerDay = (CloseHour - OpenHour) * 60 / SlotMinutes // 16
    DaysPerWeek = 7
)

// DefaultClosed reports the baseline open/closed state for a day of
// week.  Fridays (5) and Saturdays (6) default to closed; every
// other day defaults to open.  This rule is an invariant of the
// sparse-override storage model and is never persisted.
func DefaultClosed(day int) bool {
    return day == 5 || day == 6
}

// SlotStart formats the start time of day for a slot index as
// "HH:MM".  Index 0 is 09:00, index 1 is 09:30, and so on.
func SlotStart(index int) string {
    minutes := OpenHour*60 + index*SlotMinutes
    return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotEnd formats the end time of day for a slot index as "HH:MM".
// Every slot spans exactly 30 minutes.
func SlotEnd(index int) string {
    return SlotStart(index + 1)
}

// SlotIndex converts a "HH:MM" start time of day back into a slot
// index.  The second return value is false when the time does not
// name a slot boundary inside the operating window.
func SlotIndex(start string) (int, bool) {
    var h, m int
    if _, err := fmt.Sscanf(start, "%d:%d", &h, &m); err != nil {
        return 0, false
    }
    minutes := h*60 + m - OpenHour*60
    if minutes < 0 || minutes%SlotMinutes != 0 {
        return 0, false
    }
    idx := minutes / SlotMinutes
    if idx >= SlotsPerDay {
        return 0, false
    }
    return idx, true
}

// Grid is the complete in-memory weekly operating-hours state for
// one warehouse: a closed flag for every (day, slot) cell.  A grid
// is owned by a single edit session and is never partially
// persisted; saving runs the full grid through Diff.
type Grid [DaysPerWeek][SlotsPerDay]bool

// DefaultGrid returns a grid where every cell carries its
// day-of-week default.
func DefaultGrid() Grid {
    var g Grid
    for day := 0; day < DaysPerWeek; day++ {
        if !DefaultClosed(day) {
            continue
        }
        for i := 0; i < SlotsPerDay; i++ {
            g[day][i] = true
        }
    }
    return g
}

// Closed reports the closed flag for a cell.
func (g *Grid) Closed(day, index int) bool {
    return g[day][index]
}

// Set assigns the closed flag for a single cell.  Out-of-range
// coordinates are ignored.
func (g *Grid) Set(day, index int, closed bool) {
    if day < 0 || day >= DaysPerWeek || index < 0 || index >= SlotsPerDay {
        return
    }
    g[day][index] = closed
}

// SetRange applies one closed value to every slot between two
// indices of the same day, inclusive, by time order regardless of
// which index was selected first.  This backs the shift-click
// range toggle: the second click's resulting value wins for the
// whole range.
func (g *Grid) SetRange(day, from, to int, closed bool) {
    if from > to {
        from, to = to, from
    }
    for i := from; i <= to; i++ {
        g.Set(day, i, closed)
    }
}
