package model

import "time"

// Warehouse represents a physical storage location that owns a
// catalog of equipment and a weekly operating-hours grid.  Students
// and storage managers are attached to exactly one warehouse via
// their user profile.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable warehouse name.
//  Address   – free text address line.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Warehouse struct {
    ID        uint64    // warehouses.id
    Name      string    // warehouses.name
    Address   string    // warehouses.address
    CreatedAt time.Time // warehouses.created_at
    UpdatedAt time.Time // warehouses.updated_at
}
