package audit

import (
	"gorm.io/gorm"

	"planhub/database"
)

// Event is a ledger record enriched with the actor's display name
type Event struct {
	database.ActivityLog
	PerformedByName string `json:"performed_by_name"`
}

// EventPage is one page of the activity feed plus the total matching
// count, so the UI can render "showing X-Y of Z" and page independently
type EventPage struct {
	Records []Event `json:"records"`
	Total   int64   `json:"total"`
}

// Filter narrows the activity feed; zero values mean no filtering
type Filter struct {
	EntityType string
}

// Reader serves the read side of the ledger
type Reader struct {
	db *gorm.DB
}

// NewReader creates a Reader bound to the given store handle
func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// ListEvents returns one newest-first page of a project's activity feed.
// An unknown project simply yields an empty page with total 0; absence of
// history is not an error.
func (r *Reader) ListEvents(projectID uint, filter Filter, limit, offset int) (*EventPage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.Model(&database.ActivityLog{}).Where("project_id = ?", projectID)
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var logs []database.ActivityLog
	if err := query.
		Preload("Performer").
		Order("performed_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return &EventPage{Records: enrich(logs), Total: total}, nil
}

// ListEventsForEntity returns the full unpaginated timeline of one
// entity, newest first, across all projects
func (r *Reader) ListEventsForEntity(entityType string, entityID uint) ([]Event, error) {
	var logs []database.ActivityLog
	if err := r.db.
		Preload("Performer").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("performed_at DESC, id DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return enrich(logs), nil
}

func enrich(logs []database.ActivityLog) []Event {
	events := make([]Event, 0, len(logs))
	for _, l := range logs {
		name := SystemActorLabel
		if l.Performer != nil {
			name = l.Performer.Name
		}
		l.Performer = nil
		events = append(events, Event{ActivityLog: l, PerformedByName: name})
	}
	return events
}
