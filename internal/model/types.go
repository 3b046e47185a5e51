package model

import (
	"database/sql"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var AllowedPriorities = map[Priority]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

type IssueType string

const (
	IssueTypeEpic  IssueType = "EPIC"
	IssueTypeStory IssueType = "STORY"
	IssueTypeTask  IssueType = "TASK"
)

var AllowedIssueTypes = map[IssueType]struct{}{
	IssueTypeEpic:  {},
	IssueTypeStory: {},
	IssueTypeTask:  {},
}

type FileStatus string

const (
	FileStatusPending  FileStatus = "PENDING"
	FileStatusUploaded FileStatus = "UPLOADED"
)

// Entities mirror storage rows. ID is the internal key owned by the store;
// PublicID is the only identifier that ever crosses the API boundary.

type Project struct {
	ID          int64
	PublicID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Board struct {
	ID          int64
	PublicID    string
	ProjectID   int64
	Name        string
	Description string
}

type Column struct {
	ID          int64
	PublicID    string
	BoardID     int64
	Name        string
	Description string
	Position    int
}

// ColumnItem is the join row placing one issue in one column. An issue has
// at most one active placement (UNIQUE issue_id in storage).
type ColumnItem struct {
	ID       int64
	PublicID string
	ColumnID int64
	IssueID  int64
	Position int
}

type Issue struct {
	ID          int64
	PublicID    string
	ProjectID   int64
	Title       string
	Description string
	Priority    Priority
	Type        IssueType
	DueDate     sql.NullTime
	StartDate   sql.NullTime
	CreatedByID int64
	AssigneeID  sql.NullInt64
	ParentID    sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Label struct {
	ID        int64
	PublicID  string
	ProjectID int64
	Name      string
	Color     string
}

type Comment struct {
	ID        int64
	PublicID  string
	IssueID   int64
	AuthorID  int64
	ParentID  sql.NullInt64
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry records one field change on an issue. Append-only.
type HistoryEntry struct {
	ID        int64
	PublicID  string
	IssueID   int64
	AuthorID  int64
	Topic     string
	Previous  string
	Current   string
	CreatedAt time.Time
}

type Credential struct {
	ID           int64
	PublicID     string
	Email        string
	PasswordHash string
}

type Profile struct {
	ID           int64
	PublicID     string
	CredentialID int64
	FirstName    string
	LastName     string
	Position     string
	Department   string
	Organization string
	HomePhone    string
	WorkPhone    string
	AddressID    sql.NullInt64
	TeamID       sql.NullInt64
	PictureID    sql.NullInt64
	CoverID      sql.NullInt64
	LastActive   time.Time
}

type Team struct {
	ID          int64
	PublicID    string
	Name        string
	Description string
}

type Address struct {
	ID              int64
	PublicID        string
	Street          string
	HouseNumber     string
	ApartmentNumber string
	City            string
	State           string
	ZipCode         string
	Country         string
}

type File struct {
	ID           int64
	PublicID     string
	Filename     string
	StorageKey   string
	Status       FileStatus
	UploadedByID int64
}
