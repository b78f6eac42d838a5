package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planhub/database"
)

func TestRecordFieldChangesSingleField(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)
	user := createUser(t, db, "ana")

	oldSnapshot := Snapshot{"title": "Draft plan", "priority": "medium"}
	newSnapshot := Snapshot{"title": "Final plan", "priority": "medium"}

	records, err := writer.RecordFieldChanges(1, EntityTask, 10, oldSnapshot, newSnapshot, &user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, ActionUpdated, record.Action)
	require.NotNil(t, record.FieldName)
	assert.Equal(t, "title", *record.FieldName)
	assert.Equal(t, "Draft plan", *record.OldValue)
	assert.Equal(t, "Final plan", *record.NewValue)
	assert.Equal(t, user.ID, *record.PerformedBy)

	var count int64
	db.Model(&database.ActivityLog{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordFieldChangesIdenticalSnapshotsIsNoOp(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)

	snapshot := Snapshot{"title": "Same", "budget": 100.0, "tags": []string{"a", "b"}}

	records, err := writer.RecordFieldChanges(1, EntityProject, 1, snapshot, Snapshot{
		"title": "Same", "budget": 100.0, "tags": []string{"a", "b"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	var count int64
	db.Model(&database.ActivityLog{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestRecordFieldChangesMultipleFields(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)

	oldSnapshot := Snapshot{"name": "A", "budget": 50.0, "code": "X1"}
	newSnapshot := Snapshot{"name": "B", "budget": 75.0, "code": "X1"}

	records, err := writer.RecordFieldChanges(2, EntityProject, 2, oldSnapshot, newSnapshot, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Emitted in sorted key order
	assert.Equal(t, "budget", *records[0].FieldName)
	assert.Equal(t, "50", *records[0].OldValue)
	assert.Equal(t, "75", *records[0].NewValue)
	assert.Equal(t, "name", *records[1].FieldName)
}

func TestRecordFieldChangesIgnoresRemovedKeys(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)

	// "description" disappears from the new snapshot entirely; the diff
	// only inspects keys present in the new snapshot, so nothing is
	// recorded for it
	oldSnapshot := Snapshot{"title": "Keep", "description": "Gone"}
	newSnapshot := Snapshot{"title": "Keep"}

	records, err := writer.RecordFieldChanges(1, EntityTask, 5, oldSnapshot, newSnapshot, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordFieldChangesStructuredValueEquality(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)

	oldSnapshot := Snapshot{"watchers": []int{1, 2, 3}}
	newSnapshot := Snapshot{"watchers": []int{1, 2, 4}}

	records, err := writer.RecordFieldChanges(1, EntityTask, 6, oldSnapshot, newSnapshot, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "[1,2,3]", *records[0].OldValue)
	assert.Equal(t, "[1,2,4]", *records[0].NewValue)
}

func TestRecordStatusChange(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)
	user := createUser(t, db, "lee")

	record, err := writer.RecordStatusChange(3, EntityTask, 7, "todo", "in_progress", &user.ID)
	require.NoError(t, err)

	assert.Equal(t, ActionStatusChanged, record.Action)
	require.NotNil(t, record.FieldName)
	assert.Equal(t, "status", *record.FieldName)
	assert.Equal(t, "todo", *record.OldValue)
	assert.Equal(t, "in_progress", *record.NewValue)
	assert.JSONEq(t, `{"old_status":"todo","new_status":"in_progress"}`, record.Metadata)
}

func TestRecordEventWithMetadata(t *testing.T) {
	db := openTestDB(t)
	writer := NewWriter(db)

	record, err := writer.RecordEvent(4, EntityFile, 9, ActionCreated, nil, map[string]interface{}{
		"file_name": "charter.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, record.Action)
	assert.Nil(t, record.PerformedBy)
	assert.Nil(t, record.FieldName)
	assert.JSONEq(t, `{"file_name":"charter.pdf"}`, record.Metadata)
	assert.False(t, record.PerformedAt.IsZero())
}

func TestCreateThenRead(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "kim")

	_, err := NewWriter(db).RecordEvent(7, EntityTask, 42, ActionCreated, &user.ID, nil)
	require.NoError(t, err)

	page, err := NewReader(db).ListEvents(7, Filter{}, 10, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, ActionCreated, page.Records[0].Action)
	assert.EqualValues(t, 42, page.Records[0].EntityID)
	assert.Equal(t, "kim", page.Records[0].PerformedByName)
}
