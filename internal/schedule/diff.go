package schedule

import "github.com/iliyamo/equipment-rental/internal/model"

// Reconciliation is the minimal set of row operations needed so
// that the persisted overrides plus the day-of-week defaults
// reproduce a desired grid exactly.  Insert rows are fully
// populated except for their IDs, which the repository assigns.
// Update rows carry the existing ID with the new closed flag.
// Delete holds IDs of rows whose cells have returned to their
// default state.
type Reconciliation struct {
    Insert []model.TimeSlot
    Update []model.TimeSlot
    Delete []string
}

// Empty reports whether applying the reconciliation would change
// nothing.  Re-running Diff against the persisted state produced by
// a previous apply yields an empty reconciliation.
func (r Reconciliation) Empty() bool {
    return len(r.Insert) == 0 && len(r.Update) == 0 && len(r.Delete) == 0
}

// Diff compares the persisted override rows of a warehouse against
// a desired grid and returns the insert/update/delete sets that
// uphold the sparse-override invariant: a row exists exactly when
// its closed flag differs from the day's default.
//
// For every cell:
//   - a row exists and the desired value matches the default  → delete the row;
//   - a row exists and its flag differs from the desired value → update the row;
//   - no row exists and the desired value differs from default → insert a row;
//   - otherwise the cell needs nothing.
//
// Persisted rows for default-closed days with IsClosed=false are
// legitimate "override to open" rows and flow through the same
// cases; Diff places no special restriction on any day.  Rows whose
// coordinates fall outside the fixed grid are ignored rather than
// deleted, so a widened operating window cannot silently drop data.
func Diff(persisted []model.TimeSlot, desired Grid, warehouseID uint64) Reconciliation {
    existing := make(map[[2]int]model.TimeSlot, len(persisted))
    for _, row := range persisted {
        idx, ok := SlotIndex(row.SlotStart)
        if !ok || row.DayOfWeek < 0 || row.DayOfWeek >= DaysPerWeek {
            continue
        }
        existing[[2]int{row.DayOfWeek, idx}] = row
    }

    var rec Reconciliation
    for day := 0; day < DaysPerWeek; day++ {
        isDefault := DefaultClosed(day)
        for i := 0; i < SlotsPerDay; i++ {
            desiredClosed := desired[day][i]
            row, ok := existing[[2]int{day, i}]
            if ok {
                switch {
                case desiredClosed == isDefault:
                    rec.Delete = append(rec.Delete, row.ID)
                case row.IsClosed != desiredClosed:
                    row.IsClosed = desiredClosed
                    rec.Update = append(rec.Update, row)
                }
                continue
            }
            if desiredClosed != isDefault {
                rec.Insert = append(rec.Insert, model.TimeSlot{
                    WarehouseID: warehouseID,
                    DayOfWeek:   day,
                    SlotStart:   SlotStart(i),
                    SlotEnd:     SlotEnd(i),
                    IsClosed:    desiredClosed,
                })
            }
        }
    }
    return rec
}

// GridFromOverrides seeds a grid from defaults and overlays the
// persisted override rows.  Rows with coordinates outside the fixed
// window are skipped.
func GridFromOverrides(persisted []model.TimeSlot) Grid {
    g := DefaultGrid()
    for _, row := range persisted {
        idx, ok := SlotIndex(row.SlotStart)
        if !ok {
            continue
        }
        g.Set(row.DayOfWeek, idx, row.IsClosed)
    }
    return g
}
