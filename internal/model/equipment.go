package model

import "time"

// Equipment represents a borrowable catalog item owned by a
// warehouse.  Quantity tracking is intentionally coarse: TotalQty
// records how many physical units exist; availability against
// overlapping orders is resolved by the approval workflow, not by
// the catalog.
//
// Fields:
//  ID          – primary key identifier.
//  WarehouseID – warehouse that owns the item.
//  Name        – item name shown in the catalog.
//  Category    – free-form grouping label (e.g. "camera", "audio").
//  Description – longer description for the catalog page.
//  TotalQty    – number of physical units held.
//  IsActive    – inactive items are hidden from the student catalog.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Equipment struct {
    ID          uint64    // equipment.id
    WarehouseID uint64    // equipment.warehouse_id
    Name        string    // equipment.name
    Category    string    // equipment.category
    Description string    // equipment.description
    TotalQty    uint32    // equipment.total_qty
    IsActive    bool      // equipment.is_active
    CreatedAt   time.Time // equipment.created_at
    UpdatedAt   time.Time // equipment.updated_at
}
