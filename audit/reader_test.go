package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"planhub/database"
)

func insertLog(t *testing.T, db *gorm.DB, projectID uint, entityType string, entityID uint, performedAt time.Time) database.ActivityLog {
	t.Helper()
	record := database.ActivityLog{
		ProjectID:   projectID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      ActionUpdated,
		PerformedAt: performedAt,
	}
	require.NoError(t, db.Create(&record).Error)
	return record
}

func TestListEventsOrdering(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	insertLog(t, db, 1, EntityTask, 1, base)
	insertLog(t, db, 1, EntityTask, 2, base.Add(2*time.Hour))
	insertLog(t, db, 1, EntityTask, 3, base.Add(time.Hour))
	// Two records sharing a timestamp; the later insert (higher id) wins
	insertLog(t, db, 1, EntityTask, 4, base.Add(3*time.Hour))
	insertLog(t, db, 1, EntityTask, 5, base.Add(3*time.Hour))

	page, err := NewReader(db).ListEvents(1, Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 5)

	for i := 1; i < len(page.Records); i++ {
		prev, cur := page.Records[i-1], page.Records[i]
		ordered := prev.PerformedAt.After(cur.PerformedAt) ||
			(prev.PerformedAt.Equal(cur.PerformedAt) && prev.ID > cur.ID)
		assert.True(t, ordered, "records out of order at index %d", i)
	}

	assert.EqualValues(t, 5, page.Records[0].EntityID)
	assert.EqualValues(t, 4, page.Records[1].EntityID)
}

func TestListEventsPaginationCompleteness(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		insertLog(t, db, 1, EntityTask, uint(i+1), base.Add(time.Duration(i)*time.Minute))
	}

	reader := NewReader(db)
	limit := 3
	seen := map[uint]bool{}
	var collected []Event

	for offset := 0; ; offset += limit {
		page, err := reader.ListEvents(1, Filter{}, limit, offset)
		require.NoError(t, err)
		assert.EqualValues(t, 7, page.Total, "total must be invariant across pages")
		if len(page.Records) == 0 {
			break
		}
		for _, record := range page.Records {
			assert.False(t, seen[record.ID], "duplicate record %d", record.ID)
			seen[record.ID] = true
		}
		collected = append(collected, page.Records...)
	}

	require.Len(t, collected, 7)
	for i := 1; i < len(collected); i++ {
		assert.True(t, collected[i-1].ID > collected[i].ID)
	}
}

func TestListEventsEntityTypeFilter(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	insertLog(t, db, 1, EntityTask, 1, base)
	insertLog(t, db, 1, EntityMilestone, 2, base.Add(time.Minute))
	insertLog(t, db, 1, EntityTask, 3, base.Add(2*time.Minute))

	page, err := NewReader(db).ListEvents(1, Filter{EntityType: EntityTask}, 10, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Records, 2)
	for _, record := range page.Records {
		assert.Equal(t, EntityTask, record.EntityType)
	}
}

func TestListEventsUnknownScopeIsEmpty(t *testing.T) {
	db := openTestDB(t)

	page, err := NewReader(db).ListEvents(999, Filter{}, 10, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 0, page.Total)
	assert.Empty(t, page.Records)
}

func TestListEventsSystemActorLabel(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "maya")

	writer := NewWriter(db)
	_, err := writer.RecordEvent(1, EntityProject, 1, ActionCreated, &user.ID, nil)
	require.NoError(t, err)
	_, err = writer.RecordEvent(1, EntityProject, 1, ActionUpdated, nil, nil)
	require.NoError(t, err)

	page, err := NewReader(db).ListEvents(1, Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)

	// Newest first: the system-attributed update precedes the create
	assert.Equal(t, SystemActorLabel, page.Records[0].PerformedByName)
	assert.Equal(t, "maya", page.Records[1].PerformedByName)
}

func TestListEventsForEntityIgnoresScope(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	insertLog(t, db, 1, EntityTask, 42, base)
	insertLog(t, db, 2, EntityTask, 42, base.Add(time.Hour))
	insertLog(t, db, 1, EntityTask, 43, base.Add(2*time.Hour))
	insertLog(t, db, 1, EntityMilestone, 42, base.Add(3*time.Hour))

	events, err := NewReader(db).ListEventsForEntity(EntityTask, 42)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.True(t, events[0].PerformedAt.After(events[1].PerformedAt))
	for _, event := range events {
		assert.Equal(t, EntityTask, event.EntityType)
		assert.EqualValues(t, 42, event.EntityID)
	}
}
