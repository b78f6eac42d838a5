package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"planhub/database"
)

// setupTestRouter swaps the global DB for an in-memory sqlite store and
// wires the project routes behind a stub auth middleware
func setupTestRouter(t *testing.T, userID uint, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.User{},
		&database.Project{},
		&database.Task{},
		&database.ProjectMember{},
		&database.TimeEntry{},
		&database.ActivityLog{},
	))
	database.DB = db

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", "test@planhub.local")
		c.Set("role", role)
	})

	r.POST("/api/projects/:id/tasks", CreateTask)
	r.PUT("/api/projects/:id/tasks/:taskId/status", UpdateTaskStatus)
	r.POST("/api/projects/:id/time-entries", CreateTimeEntry)
	r.GET("/api/projects/:id/activity", GetProjectActivity)
	r.GET("/api/projects/:id/calendar", GetWeekCalendar)
	r.GET("/api/activity/:entityType/:entityId", GetEntityHistory)

	return r
}

func seedProjectAndUser(t *testing.T) (*database.Project, *database.User) {
	t.Helper()
	user := database.User{Name: "tess", Email: "tess@planhub.local", Role: database.RoleAdmin}
	require.NoError(t, database.DB.Create(&user).Error)

	project := database.Project{Name: "Apollo", Code: "APL", Status: database.ProjectStatusActive, OwnerID: user.ID}
	require.NoError(t, database.DB.Create(&project).Error)
	return &project, &user
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskMutationFeedsActivityEndpoint(t *testing.T) {
	r := setupTestRouter(t, 1, RoleAdmin)
	project, _ := seedProjectAndUser(t)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{
		"title": "Draft charter",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task database.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = doJSON(r, http.MethodPut,
		fmt.Sprintf("/api/projects/%d/tasks/%d/status", project.ID, task.ID),
		gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Records []struct {
			EntityType string  `json:"entity_type"`
			EntityID   uint    `json:"entity_id"`
			Action     string  `json:"action"`
			FieldName  *string `json:"field_name"`
			OldValue   *string `json:"old_value"`
			NewValue   *string `json:"new_value"`
		} `json:"records"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Records, 2)

	// Newest first: the status change precedes the create
	statusChange := page.Records[0]
	assert.Equal(t, "status_changed", statusChange.Action)
	assert.Equal(t, "task", statusChange.EntityType)
	assert.Equal(t, task.ID, statusChange.EntityID)
	require.NotNil(t, statusChange.FieldName)
	assert.Equal(t, "status", *statusChange.FieldName)
	assert.Equal(t, "todo", *statusChange.OldValue)
	assert.Equal(t, "in_progress", *statusChange.NewValue)

	assert.Equal(t, "created", page.Records[1].Action)
}

func TestActivityEndpointRejectsInvalidEntityType(t *testing.T) {
	r := setupTestRouter(t, 1, RoleAdmin)
	project, _ := seedProjectAndUser(t)

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/activity?entity_type=order", project.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/activity?limit=abc", project.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActivityEndpointEmptyProject(t *testing.T) {
	r := setupTestRouter(t, 1, RoleAdmin)
	project, _ := seedProjectAndUser(t)

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/api/projects/%d/activity", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Records []json.RawMessage `json:"records"`
		Total   int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 0, page.Total)
	assert.Empty(t, page.Records)
}

func TestEntityHistoryEndpoint(t *testing.T) {
	r := setupTestRouter(t, 1, RoleAdmin)
	project, _ := seedProjectAndUser(t)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", project.ID), gin.H{
		"title": "Review risks",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var task database.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/activity/task/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Records []struct {
			Action          string `json:"action"`
			PerformedByName string `json:"performed_by_name"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Records, 1)
	assert.Equal(t, "created", response.Records[0].Action)
	assert.Equal(t, "tess", response.Records[0].PerformedByName)

	w = doJSON(r, http.MethodGet, "/api/activity/order/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	r := setupTestRouter(t, 1, RoleAdmin)
	project, _ := seedProjectAndUser(t)

	for _, entry := range []gin.H{
		{"date": "2025-01-06", "hours": 4.0},
		{"date": "2025-01-08", "hours": 3.5},
		{"date": "2025-02-01", "hours": 8.0}, // outside the queried week
	} {
		w := doJSON(r, http.MethodPost,
			fmt.Sprintf("/api/projects/%d/time-entries", project.ID), entry)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/calendar?week_of=2025-01-08", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var calendar struct {
		WeekStart string `json:"week_start"`
		WeekEnd   string `json:"week_end"`
		Members   []struct {
			UserName  string  `json:"user_name"`
			WeekTotal float64 `json:"week_total"`
			Days      []struct {
				Date  string  `json:"date"`
				Hours float64 `json:"hours"`
			} `json:"days"`
		} `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &calendar))

	assert.Equal(t, "2025-01-05", calendar.WeekStart)
	assert.Equal(t, "2025-01-11", calendar.WeekEnd)
	require.Len(t, calendar.Members, 1)
	member := calendar.Members[0]
	assert.Equal(t, "tess", member.UserName)
	assert.InDelta(t, 7.5, member.WeekTotal, 1e-9)
	require.Len(t, member.Days, 2)

	w = doJSON(r, http.MethodGet,
		fmt.Sprintf("/api/projects/%d/calendar?week_of=not-a-date", project.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
