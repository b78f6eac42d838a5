package controllers

import (
	"planhub/database"
)

// User role constants
const (
	RoleAdmin   = database.RoleAdmin
	RoleManager = database.RoleManager
	RoleMember  = database.RoleMember
)

// Project status constants
const (
	ProjectStatusPlanning  = database.ProjectStatusPlanning
	ProjectStatusActive    = database.ProjectStatusActive
	ProjectStatusOnHold    = database.ProjectStatusOnHold
	ProjectStatusCompleted = database.ProjectStatusCompleted
	ProjectStatusArchived  = database.ProjectStatusArchived
)

// Task status constants
const (
	TaskStatusTodo       = database.TaskStatusTodo
	TaskStatusInProgress = database.TaskStatusInProgress
	TaskStatusBlocked    = database.TaskStatusBlocked
	TaskStatusDone       = database.TaskStatusDone
)

// Milestone status constants
const (
	MilestoneStatusUpcoming = database.MilestoneStatusUpcoming
	MilestoneStatusReached  = database.MilestoneStatusReached
	MilestoneStatusMissed   = database.MilestoneStatusMissed
)

// Request status constants
const (
	RequestStatusOpen     = database.RequestStatusOpen
	RequestStatusTriaged  = database.RequestStatusTriaged
	RequestStatusAccepted = database.RequestStatusAccepted
	RequestStatusRejected = database.RequestStatusRejected
	RequestStatusDone     = database.RequestStatusDone
)

// Pagination defaults for list endpoints
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
