package model

// TimeSlot is a persisted operating-hours override row in the
// `warehouse_time_slots` table.  The weekly grid itself is never
// stored in full: a row exists only when the slot's closed flag
// differs from the computed default for its day of week
// (Friday and Saturday default closed, all other days open).
// Deleting a row therefore reverts the slot to its default.
//
// Fields:
//  ID          – UUID primary key.
//  WarehouseID – warehouse the grid belongs to.
//  DayOfWeek   – 0 (Sunday) through 6 (Saturday).
//  SlotStart   – slot start time of day as "HH:MM".
//  SlotEnd     – slot end time of day as "HH:MM", fixed 30 minutes after SlotStart.
//  IsClosed    – the overridden state for the slot.
type TimeSlot struct {
    ID          string // warehouse_time_slots.id (CHAR(36))
    WarehouseID uint64 // warehouse_time_slots.warehouse_id
    DayOfWeek   int    // warehouse_time_slots.day_of_week
    SlotStart   string // warehouse_time_slots.slot_start
    SlotEnd     string // warehouse_time_slots.slot_end
    IsClosed    bool   // warehouse_time_slots.is_closed
}
