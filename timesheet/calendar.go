// Package timesheet folds raw time entries into the per-member,
// per-day, per-week calendar view.
package timesheet

import (
	"math"
	"time"

	"gorm.io/gorm"

	"planhub/database"
)

const dateLayout = "2006-01-02"

// DayHours is one materialized day bucket. Dates with no logged entry do
// not appear; consumers treat missing dates as zero.
type DayHours struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// MemberWeek is one member's row in the calendar matrix
type MemberWeek struct {
	UserID    uint       `json:"user_id"`
	UserName  string     `json:"user_name"`
	Days      []DayHours `json:"days"`
	WeekTotal float64    `json:"week_total"`
}

// WeekCalendar is the derived calendar view for one project week
type WeekCalendar struct {
	WeekStart string       `json:"week_start"`
	WeekEnd   string       `json:"week_end"`
	Members   []MemberWeek `json:"members"`
}

// Aggregator builds calendar views from an injected store handle
type Aggregator struct {
	db *gorm.DB
}

// NewAggregator creates an Aggregator bound to the given store handle
func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

// WeekStart normalizes a date to the Sunday that starts its week
func WeekStart(anchor time.Time) time.Time {
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// BuildWeekCalendar aggregates a project's time entries into the week
// window anchored on weekOf. All entries for the project are fetched and
// the window filter applied in memory; entries land in per-user day
// buckets in first-seen user order.
func (a *Aggregator) BuildWeekCalendar(projectID uint, weekOf time.Time) (*WeekCalendar, error) {
	weekStart := WeekStart(weekOf)
	weekEnd := weekStart.AddDate(0, 0, 6)

	var entries []database.TimeEntry
	if err := a.db.
		Preload("User").
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	type accumulator struct {
		userID   uint
		userName string
		days     map[string]float64
		total    float64
	}

	byUser := map[uint]*accumulator{}
	var order []uint

	for _, entry := range entries {
		day := time.Date(entry.Date.Year(), entry.Date.Month(), entry.Date.Day(), 0, 0, 0, 0, weekStart.Location())
		if day.Before(weekStart) || day.After(weekEnd) {
			continue
		}

		acc, ok := byUser[entry.UserID]
		if !ok {
			acc = &accumulator{
				userID:   entry.UserID,
				userName: entry.User.Name,
				days:     map[string]float64{},
			}
			byUser[entry.UserID] = acc
			order = append(order, entry.UserID)
		}

		key := day.Format(dateLayout)
		acc.days[key] += entry.Hours
		acc.total += entry.Hours
	}

	members := make([]MemberWeek, 0, len(order))
	for _, userID := range order {
		acc := byUser[userID]
		member := MemberWeek{
			UserID:   acc.userID,
			UserName: acc.userName,
			Days:     make([]DayHours, 0, len(acc.days)),
		}
		// walk the window day by day so buckets come out date-ordered
		for d := weekStart; !d.After(weekEnd); d = d.AddDate(0, 0, 1) {
			key := d.Format(dateLayout)
			if hours, ok := acc.days[key]; ok {
				rounded := round1(hours)
				member.Days = append(member.Days, DayHours{Date: key, Hours: rounded})
				member.WeekTotal += rounded
			}
		}
		member.WeekTotal = round1(member.WeekTotal)
		members = append(members, member)
	}

	return &WeekCalendar{
		WeekStart: weekStart.Format(dateLayout),
		WeekEnd:   weekEnd.Format(dateLayout),
		Members:   members,
	}, nil
}

func round1(hours float64) float64 {
	return math.Round(hours*10) / 10
}
