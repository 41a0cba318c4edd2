package model

import "time"

// ConsentForm is a document students must acknowledge before
// borrowing from a warehouse.  Forms marked required gate order
// creation for students attached to the warehouse.
//
// Fields:
//  ID          – primary key identifier.
//  WarehouseID – warehouse the form applies to.
//  Title       – short title shown to students.
//  Body        – full form text.
//  IsRequired  – whether signing is mandatory before ordering.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type ConsentForm struct {
    ID          uint64    // consent_forms.id
    WarehouseID uint64    // consent_forms.warehouse_id
    Title       string    // consent_forms.title
    Body        string    // consent_forms.body
    IsRequired  bool      // consent_forms.is_required
    CreatedAt   time.Time // consent_forms.created_at
    UpdatedAt   time.Time // consent_forms.updated_at
}

// ConsentSignature records that a user signed a consent form.
// The pair (FormID, UserID) is unique.
type ConsentSignature struct {
    FormID   uint64    // consent_signatures.form_id
    UserID   uint64    // consent_signatures.user_id
    SignedAt time.Time // consent_signatures.signed_at
}
