package database

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the system and doubles as the actor
// directory for activity enrichment
type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Title        string `json:"title"`
	Phone        string `json:"phone"`
}

// Project is the owning aggregate every scoped record hangs off
type Project struct {
	gorm.Model
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	OwnerID     uint       `json:"owner_id"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      float64    `json:"budget"`
	Owner       User       `gorm:"foreignKey:OwnerID" json:"owner"`
}

// Task represents a unit of work inside a project
type Task struct {
	gorm.Model
	ProjectID      uint       `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssigneeID     *uint      `json:"assignee_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours float64    `json:"estimated_hours"`
	Project        Project    `gorm:"foreignKey:ProjectID" json:"project"`
	Assignee       *User      `gorm:"foreignKey:AssigneeID" json:"assignee"`
}

// Milestone represents a dated checkpoint inside a project
type Milestone struct {
	gorm.Model
	ProjectID   uint       `json:"project_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Project     Project    `gorm:"foreignKey:ProjectID" json:"project"`
}

// BudgetItem represents one planned/actual spend line of a project budget
type BudgetItem struct {
	gorm.Model
	ProjectID     uint    `json:"project_id"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	PlannedAmount float64 `json:"planned_amount"`
	ActualAmount  float64 `json:"actual_amount"`
	Project       Project `gorm:"foreignKey:ProjectID" json:"project"`
}

// Stakeholder represents an interested party attached to a project
type Stakeholder struct {
	gorm.Model
	ProjectID    uint    `json:"project_id"`
	Name         string  `json:"name"`
	Organization string  `json:"organization"`
	Role         string  `json:"role"`
	Influence    string  `json:"influence"`
	Email        string  `json:"email"`
	Project      Project `gorm:"foreignKey:ProjectID" json:"project"`
}

// ProjectMember links a user to a project with a project-level role
type ProjectMember struct {
	gorm.Model
	ProjectID         uint    `json:"project_id"`
	UserID            uint    `json:"user_id"`
	ProjectRole       string  `json:"project_role"`
	AllocationPercent int     `json:"allocation_percent"`
	Project           Project `gorm:"foreignKey:ProjectID" json:"project"`
	User              User    `gorm:"foreignKey:UserID" json:"user"`
}

// ProjectFile stores metadata for an uploaded project document
type ProjectFile struct {
	gorm.Model
	ProjectID  uint    `json:"project_id"`
	FileName   string  `json:"file_name"`
	FilePath   string  `json:"file_path"`
	SizeBytes  int64   `json:"size_bytes"`
	UploadedBy *uint   `json:"uploaded_by"`
	Project    Project `gorm:"foreignKey:ProjectID" json:"project"`
	Uploader   *User   `gorm:"foreignKey:UploadedBy" json:"uploader"`
}

// CrewMember is a portfolio-level FTE/contractor record
type CrewMember struct {
	gorm.Model
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	CostRate     float64 `json:"cost_rate"`
	Availability int     `json:"availability"`
	Notes        string  `json:"notes"`
}

// AdHocRequest is a portfolio-level incoming request awaiting triage
type AdHocRequest struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	RequesterID *uint  `json:"requester_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Requester   *User  `gorm:"foreignKey:RequesterID" json:"requester"`
}

// TimeEntry is one logged block of hours by one user on one project day
type TimeEntry struct {
	gorm.Model
	ProjectID uint      `json:"project_id"`
	UserID    uint      `json:"user_id"`
	Date      time.Time `json:"date"`
	Hours     float64   `json:"hours"`
	Note      string    `json:"note"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
}

// ActivityLog is one immutable entry in the project activity ledger.
// Rows are only ever inserted; nothing in the application updates or
// deletes them.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   uint      `gorm:"index;not null" json:"project_id"`
	EntityType  string    `gorm:"size:50;not null" json:"entity_type"`
	EntityID    uint      `gorm:"not null" json:"entity_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	FieldName   *string   `gorm:"size:100" json:"field_name"`
	OldValue    *string   `gorm:"type:text" json:"old_value"`
	NewValue    *string   `gorm:"type:text" json:"new_value"`
	PerformedBy *uint     `gorm:"index" json:"performed_by"`
	PerformedAt time.Time `gorm:"index" json:"performed_at"`
	Metadata    string    `gorm:"type:text" json:"metadata"`
	Performer   *User     `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

// TableName keeps the ledger table name explicit
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Constants for status values
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"

	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusBlocked    = "blocked"
	TaskStatusDone       = "done"

	MilestoneStatusUpcoming = "upcoming"
	MilestoneStatusReached  = "reached"
	MilestoneStatusMissed   = "missed"

	RequestStatusOpen     = "open"
	RequestStatusTriaged  = "triaged"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
	RequestStatusDone     = "done"

	CrewTypeFTE        = "fte"
	CrewTypeContractor = "contractor"

	// User roles
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleMember  = "member"
)
