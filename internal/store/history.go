package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

// AppendHistory records one field change. History rows are never updated or
// deleted by normal flows.
func (t *Tx) AppendHistory(issueID, authorID int64, topic, previous, current string) (model.HistoryEntry, error) {
	h := model.HistoryEntry{
		PublicID:  uuid.NewString(),
		IssueID:   issueID,
		AuthorID:  authorID,
		Topic:     topic,
		Previous:  previous,
		Current:   current,
		CreatedAt: time.Now().UTC(),
	}
	res, err := t.tx.Exec(`
INSERT INTO issue_history (public_id, issue_id, author_id, topic, previous, current, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.PublicID, h.IssueID, h.AuthorID, h.Topic, h.Previous, h.Current, formatTime(h.CreatedAt))
	if err != nil {
		return model.HistoryEntry{}, err
	}
	h.ID, err = res.LastInsertId()
	return h, err
}

func (t *Tx) HistoryByIssue(issueID int64) ([]model.HistoryEntry, error) {
	return t.historyList(`
SELECT id, public_id, issue_id, author_id, topic, previous, current, created_at
FROM issue_history WHERE issue_id = ? ORDER BY id`, issueID)
}

func (t *Tx) HistoryByAuthor(authorID int64) ([]model.HistoryEntry, error) {
	return t.historyList(`
SELECT id, public_id, issue_id, author_id, topic, previous, current, created_at
FROM issue_history WHERE author_id = ? ORDER BY id`, authorID)
}

func (t *Tx) historyList(query string, args ...any) ([]model.HistoryEntry, error) {
	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var (
			h       model.HistoryEntry
			created string
		)
		if err := rows.Scan(&h.ID, &h.PublicID, &h.IssueID, &h.AuthorID, &h.Topic, &h.Previous, &h.Current, &created); err != nil {
			return nil, err
		}
		if h.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
