package model

import "time"

const (
	EventTypeProjectCreated = "project.created"
	EventTypeBoardCreated   = "board.created"
	EventTypeBoardUpdated   = "board.updated"
	EventTypeColumnCreated  = "column.created"
	EventTypeItemPlaced     = "item.placed"
	EventTypeItemMoved      = "item.moved"
	EventTypeItemRemoved    = "item.removed"
	EventTypeIssueCreated   = "issue.created"
	EventTypeIssueUpdated   = "issue.updated"
	EventTypeIssueDeleted   = "issue.deleted"
	EventTypeStatusChanged  = "issue.status_changed"
	EventTypeCommentCreated = "comment.created"
	EventTypeCommentUpdated = "comment.updated"
)

// Event is broadcast to websocket subscribers. Project carries the project
// public id and doubles as the subscription filter key.
type Event struct {
	Type      string    `json:"type"`
	Project   string    `json:"project"`
	BoardID   string    `json:"board_id,omitempty"`
	IssueID   string    `json:"issue_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
