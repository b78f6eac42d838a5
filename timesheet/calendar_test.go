package timesheet

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"planhub/database"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&database.User{},
		&database.TimeEntry{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *database.User {
	t.Helper()
	user := database.User{Name: name, Email: name + "@planhub.local", Role: database.RoleMember}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func logHours(t *testing.T, db *gorm.DB, projectID, userID uint, date time.Time, hours float64) {
	t.Helper()
	entry := database.TimeEntry{ProjectID: projectID, UserID: userID, Date: date, Hours: hours}
	require.NoError(t, db.Create(&entry).Error)
}

func TestWeekStartNormalizesToSunday(t *testing.T) {
	// 2025-01-08 is a Wednesday; its week starts Sunday 2025-01-05
	wednesday := time.Date(2025, 1, 8, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-05", WeekStart(wednesday).Format("2006-01-02"))

	// A Sunday anchors its own week
	sunday := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-05", WeekStart(sunday).Format("2006-01-02"))

	// Saturday still belongs to the week that began six days earlier
	saturday := time.Date(2025, 1, 11, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-05", WeekStart(saturday).Format("2006-01-02"))
}

func TestBuildWeekCalendar(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	logHours(t, db, 1, alice.ID, monday, 4)
	logHours(t, db, 1, alice.ID, wednesday, 3)
	logHours(t, db, 1, bob.ID, monday, 2)

	calendar, err := NewAggregator(db).BuildWeekCalendar(1, wednesday)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-05", calendar.WeekStart)
	assert.Equal(t, "2025-01-11", calendar.WeekEnd)
	require.Len(t, calendar.Members, 2)

	aliceWeek := calendar.Members[0]
	assert.Equal(t, alice.ID, aliceWeek.UserID)
	assert.Equal(t, "alice", aliceWeek.UserName)
	assert.InDelta(t, 7.0, aliceWeek.WeekTotal, 1e-9)
	require.Len(t, aliceWeek.Days, 2)
	assert.Equal(t, DayHours{Date: "2025-01-06", Hours: 4}, aliceWeek.Days[0])
	assert.Equal(t, DayHours{Date: "2025-01-08", Hours: 3}, aliceWeek.Days[1])

	bobWeek := calendar.Members[1]
	assert.Equal(t, "bob", bobWeek.UserName)
	assert.InDelta(t, 2.0, bobWeek.WeekTotal, 1e-9)
	require.Len(t, bobWeek.Days, 1)
	assert.Equal(t, DayHours{Date: "2025-01-06", Hours: 2}, bobWeek.Days[0])

	// Monday grand total derived by the consumer from the same structure
	var mondayTotal float64
	for _, member := range calendar.Members {
		for _, day := range member.Days {
			if day.Date == "2025-01-06" {
				mondayTotal += day.Hours
			}
		}
	}
	assert.InDelta(t, 6.0, mondayTotal, 1e-9)
}

func TestBuildWeekCalendarWeekTotalIdentity(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "cara")

	weekStart := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		logHours(t, db, 1, user.ID, weekStart.AddDate(0, 0, i), 1.5)
	}
	// Two entries on the same day merge into one bucket
	logHours(t, db, 1, user.ID, weekStart, 2.5)

	calendar, err := NewAggregator(db).BuildWeekCalendar(1, weekStart)
	require.NoError(t, err)
	require.Len(t, calendar.Members, 1)

	member := calendar.Members[0]
	require.Len(t, member.Days, 7)
	assert.InDelta(t, 4.0, member.Days[0].Hours, 1e-9)

	var sum float64
	for _, day := range member.Days {
		sum += day.Hours
	}
	assert.InDelta(t, member.WeekTotal, sum, 1e-9)
	assert.InDelta(t, 13.0, member.WeekTotal, 1e-9)
}

func TestBuildWeekCalendarDiscardsOutOfWindowEntries(t *testing.T) {
	db := openTestDB(t)
	user := createUser(t, db, "drew")

	weekStart := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	logHours(t, db, 1, user.ID, weekStart.AddDate(0, 0, -1), 8) // previous Saturday
	logHours(t, db, 1, user.ID, weekStart.AddDate(0, 0, 7), 8)  // next Sunday
	logHours(t, db, 1, user.ID, weekStart.AddDate(0, 0, 2), 5)

	calendar, err := NewAggregator(db).BuildWeekCalendar(1, weekStart)
	require.NoError(t, err)

	require.Len(t, calendar.Members, 1)
	member := calendar.Members[0]
	require.Len(t, member.Days, 1)
	assert.InDelta(t, 5.0, member.WeekTotal, 1e-9)
}

func TestBuildWeekCalendarGrandTotalIdentity(t *testing.T) {
	db := openTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	weekStart := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	inWindow := []struct {
		userID uint
		offset int
		hours  float64
	}{
		{alice.ID, 0, 2.5},
		{alice.ID, 3, 4},
		{bob.ID, 1, 6},
		{bob.ID, 6, 1.5},
	}
	var rawSum float64
	for _, row := range inWindow {
		logHours(t, db, 1, row.userID, weekStart.AddDate(0, 0, row.offset), row.hours)
		rawSum += row.hours
	}
	logHours(t, db, 1, alice.ID, weekStart.AddDate(0, 0, 10), 9) // outside window
	logHours(t, db, 2, bob.ID, weekStart, 9)                     // other project

	calendar, err := NewAggregator(db).BuildWeekCalendar(1, weekStart.AddDate(0, 0, 4))
	require.NoError(t, err)

	var grandTotal float64
	for _, member := range calendar.Members {
		grandTotal += member.WeekTotal
	}
	assert.InDelta(t, rawSum, grandTotal, 1e-9)
}

func TestBuildWeekCalendarEmptyProject(t *testing.T) {
	db := openTestDB(t)

	calendar, err := NewAggregator(db).BuildWeekCalendar(42, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, calendar.Members)
	assert.Equal(t, "2025-01-05", calendar.WeekStart)
}
