// Package audit records and reads the project activity ledger: an
// append-only trail of create/update/delete/status-change facts across
// the tracked entity types, scoped by project.
package audit

// Entity types tracked by the ledger
const (
	EntityProject     = "project"
	EntityTask        = "task"
	EntityMilestone   = "milestone"
	EntityMember      = "member"
	EntityStakeholder = "stakeholder"
	EntityBudgetItem  = "budget_item"
	EntityFile        = "file"
)

// Actions recorded in the ledger
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

// SystemActorLabel is the display name used when a record has no performer
const SystemActorLabel = "System"

var entityTypes = map[string]bool{
	EntityProject:     true,
	EntityTask:        true,
	EntityMilestone:   true,
	EntityMember:      true,
	EntityStakeholder: true,
	EntityBudgetItem:  true,
	EntityFile:        true,
}

// IsValidEntityType reports whether s names a tracked entity type
func IsValidEntityType(s string) bool {
	return entityTypes[s]
}
