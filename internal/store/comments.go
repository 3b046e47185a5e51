package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateComment(issueID, authorID int64, parentID sql.NullInt64, text string) (model.Comment, error) {
	now := time.Now().UTC()
	c := model.Comment{
		PublicID:  uuid.NewString(),
		IssueID:   issueID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := t.tx.Exec(`
INSERT INTO issue_comments (public_id, issue_id, author_id, parent_id, text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.PublicID, c.IssueID, c.AuthorID, nullIntArg(c.ParentID), c.Text,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return model.Comment{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

const commentColumns = `id, public_id, issue_id, author_id, parent_id, text, created_at, updated_at`

func scanComment(scan func(...any) error) (model.Comment, error) {
	var (
		c                model.Comment
		created, updated string
	)
	err := scan(&c.ID, &c.PublicID, &c.IssueID, &c.AuthorID, &c.ParentID, &c.Text, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, ErrNotFound
	}
	if err != nil {
		return model.Comment{}, err
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return model.Comment{}, err
	}
	if c.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

func (t *Tx) CommentByPublicID(publicID string) (model.Comment, error) {
	return scanComment(t.tx.QueryRow(`SELECT `+commentColumns+` FROM issue_comments WHERE public_id = ?`, publicID).Scan)
}

func (t *Tx) CommentByID(id int64) (model.Comment, error) {
	return scanComment(t.tx.QueryRow(`SELECT `+commentColumns+` FROM issue_comments WHERE id = ?`, id).Scan)
}

func (t *Tx) CommentsByIssue(issueID int64) ([]model.Comment, error) {
	rows, err := t.tx.Query(`
SELECT `+commentColumns+` FROM issue_comments WHERE issue_id = ? ORDER BY id`, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows.Scan)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (t *Tx) UpdateCommentText(id int64, text string) error {
	res, err := t.tx.Exec(`
UPDATE issue_comments SET text = ?, updated_at = ? WHERE id = ?`,
		text, formatTime(time.Now().UTC()), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (t *Tx) TouchComment(id int64) error {
	_, err := t.tx.Exec(`UPDATE issue_comments SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()), id)
	return err
}

func (t *Tx) LikeComment(commentID, profileID int64) error {
	_, err := t.tx.Exec(`
INSERT INTO comment_likes (comment_id, profile_id) VALUES (?, ?)
ON CONFLICT DO NOTHING`, commentID, profileID)
	return err
}

func (t *Tx) UnlikeComment(commentID, profileID int64) error {
	_, err := t.tx.Exec(`
DELETE FROM comment_likes WHERE comment_id = ? AND profile_id = ?`, commentID, profileID)
	return err
}

func (t *Tx) LikerPublicIDs(commentID int64) ([]string, error) {
	rows, err := t.tx.Query(`
SELECT up.public_id FROM comment_likes cl
JOIN user_profiles up ON up.id = cl.profile_id
WHERE cl.comment_id = ?
ORDER BY up.id`, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
