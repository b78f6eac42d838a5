package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"planhub/database"
)

// Snapshot is a flat key-value view of an entity's attributes at a point
// in time, used as diff input
type Snapshot map[string]interface{}

// Writer appends records to the activity ledger. It holds an injected
// store handle, so a Writer built from a transaction handle participates
// in that transaction and a failed insert rolls the whole thing back.
type Writer struct {
	db *gorm.DB
}

// NewWriter creates a Writer bound to the given store handle
func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// RecordEvent writes a single-fact record for an atomic event such as a
// create or delete. metadata may be nil; it is stored as opaque JSON text.
func (w *Writer) RecordEvent(projectID uint, entityType string, entityID uint, action string, performedBy *uint, metadata map[string]interface{}) (*database.ActivityLog, error) {
	record := database.ActivityLog{
		ProjectID:   projectID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		PerformedAt: time.Now().UTC(),
		Metadata:    encodeMetadata(metadata),
	}

	if err := w.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordFieldChanges diffs two snapshots and writes one "updated" record
// per changed field. Only keys present in the new snapshot are inspected,
// so a field dropped entirely from the new snapshot is never flagged; the
// writer detects value changes, not field removal. Identical snapshots
// are a silent no-op.
func (w *Writer) RecordFieldChanges(projectID uint, entityType string, entityID uint, oldSnapshot, newSnapshot Snapshot, performedBy *uint) ([]database.ActivityLog, error) {
	keys := make([]string, 0, len(newSnapshot))
	for key := range newSnapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	var records []database.ActivityLog
	for _, key := range keys {
		oldValue := encodeValue(oldSnapshot[key])
		newValue := encodeValue(newSnapshot[key])
		if oldValue == newValue {
			continue
		}
		fieldName := key
		records = append(records, database.ActivityLog{
			ProjectID:   projectID,
			EntityType:  entityType,
			EntityID:    entityID,
			Action:      ActionUpdated,
			FieldName:   &fieldName,
			OldValue:    &oldValue,
			NewValue:    &newValue,
			PerformedBy: performedBy,
			PerformedAt: now,
		})
	}

	if len(records) == 0 {
		return nil, nil
	}

	if err := w.db.Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// RecordStatusChange writes a distinguished status_changed record so
// lifecycle transitions stay filterable apart from generic field edits
func (w *Writer) RecordStatusChange(projectID uint, entityType string, entityID uint, oldStatus, newStatus string, performedBy *uint) (*database.ActivityLog, error) {
	fieldName := "status"
	record := database.ActivityLog{
		ProjectID:   projectID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      ActionStatusChanged,
		FieldName:   &fieldName,
		OldValue:    &oldStatus,
		NewValue:    &newStatus,
		PerformedBy: performedBy,
		PerformedAt: time.Now().UTC(),
		Metadata: encodeMetadata(map[string]interface{}{
			"old_status": oldStatus,
			"new_status": newStatus,
		}),
	}

	if err := w.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// encodeValue serializes a snapshot value as text: strings verbatim,
// everything else JSON. Comparing the serialized forms gives value
// equality for structured values too.
func encodeValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return s
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

func encodeMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}
