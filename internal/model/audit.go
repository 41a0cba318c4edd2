package model

import "time"

// AuditEntry is an append-only record of a privileged action:
// order decisions, inventory and user administration, operating
// hours changes.  Entries are written in the same transaction as
// the mutation they describe where one exists.
//
// Fields:
//  ID        – primary key identifier.
//  ActorID   – user who performed the action.
//  Action    – verb, e.g. "order.approve", "equipment.update".
//  Entity    – table/aggregate name the action touched.
//  EntityID  – identifier of the touched row (string to cover UUID keys).
//  Detail    – free-form context, e.g. a rejection reason.
//  CreatedAt – when the action happened.
type AuditEntry struct {
    ID        uint64    // audit_log.id
    ActorID   uint64    // audit_log.actor_id
    Action    string    // audit_log.action
    Entity    string    // audit_log.entity
    EntityID  string    // audit_log.entity_id
    Detail    string    // audit_log.detail
    CreatedAt time.Time // audit_log.created_at
}
