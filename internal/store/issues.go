package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateIssue(issue model.Issue) (model.Issue, error) {
	now := time.Now().UTC()
	issue.PublicID = uuid.NewString()
	issue.CreatedAt = now
	issue.UpdatedAt = now
	res, err := t.tx.Exec(`
INSERT INTO issues (
  public_id, project_id, title, description, priority, type,
  due_date, start_date, created_by, assignee_id, parent_id, created_at, updated_at
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.PublicID,
		issue.ProjectID,
		issue.Title,
		issue.Description,
		string(issue.Priority),
		string(issue.Type),
		nullTimeArg(issue.DueDate),
		nullTimeArg(issue.StartDate),
		issue.CreatedByID,
		nullIntArg(issue.AssigneeID),
		nullIntArg(issue.ParentID),
		formatTime(issue.CreatedAt),
		formatTime(issue.UpdatedAt),
	)
	if err != nil {
		return model.Issue{}, err
	}
	issue.ID, err = res.LastInsertId()
	return issue, err
}

const issueColumns = `id, public_id, project_id, title, description, priority, type,
  due_date, start_date, created_by, assignee_id, parent_id, created_at, updated_at`

func scanIssue(scan func(...any) error) (model.Issue, error) {
	var (
		issue              model.Issue
		priority, typ      string
		due, start         sql.NullString
		created, updated   string
	)
	err := scan(
		&issue.ID, &issue.PublicID, &issue.ProjectID, &issue.Title, &issue.Description,
		&priority, &typ, &due, &start, &issue.CreatedByID, &issue.AssigneeID,
		&issue.ParentID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Issue{}, ErrNotFound
	}
	if err != nil {
		return model.Issue{}, err
	}
	issue.Priority = model.Priority(priority)
	issue.Type = model.IssueType(typ)
	if due.Valid {
		parsed, err := parseTime(due.String)
		if err != nil {
			return model.Issue{}, err
		}
		issue.DueDate = sql.NullTime{Time: parsed, Valid: true}
	}
	if start.Valid {
		parsed, err := parseTime(start.String)
		if err != nil {
			return model.Issue{}, err
		}
		issue.StartDate = sql.NullTime{Time: parsed, Valid: true}
	}
	if issue.CreatedAt, err = parseTime(created); err != nil {
		return model.Issue{}, err
	}
	if issue.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Issue{}, err
	}
	return issue, nil
}

func (t *Tx) issueRow(query string, args ...any) (model.Issue, error) {
	return scanIssue(t.tx.QueryRow(query, args...).Scan)
}

func (t *Tx) IssueByPublicID(publicID string) (model.Issue, error) {
	return t.issueRow(`SELECT `+issueColumns+` FROM issues WHERE public_id = ?`, publicID)
}

func (t *Tx) IssueByID(id int64) (model.Issue, error) {
	return t.issueRow(`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
}

// UpdateIssue writes every mutable field; the service resolves partial
// updates against the current row before calling.
func (t *Tx) UpdateIssue(issue model.Issue) (model.Issue, error) {
	issue.UpdatedAt = time.Now().UTC()
	res, err := t.tx.Exec(`
UPDATE issues SET
  project_id = ?, title = ?, description = ?, priority = ?, type = ?,
  due_date = ?, start_date = ?, assignee_id = ?, parent_id = ?, updated_at = ?
WHERE id = ?`,
		issue.ProjectID,
		issue.Title,
		issue.Description,
		string(issue.Priority),
		string(issue.Type),
		nullTimeArg(issue.DueDate),
		nullTimeArg(issue.StartDate),
		nullIntArg(issue.AssigneeID),
		nullIntArg(issue.ParentID),
		formatTime(issue.UpdatedAt),
		issue.ID,
	)
	if err != nil {
		return model.Issue{}, err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return model.Issue{}, ErrNotFound
	}
	return issue, err
}

func (t *Tx) DeleteIssue(id int64) error {
	res, err := t.tx.Exec(`DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (t *Tx) issueList(query string, args ...any) ([]model.Issue, error) {
	rows, err := t.tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]model.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

func (t *Tx) ChildIssues(parentID int64) ([]model.Issue, error) {
	return t.issueList(`SELECT `+issueColumns+` FROM issues WHERE parent_id = ? ORDER BY id`, parentID)
}

func (t *Tx) IssuesByProject(projectID int64) ([]model.Issue, error) {
	return t.issueList(`SELECT `+issueColumns+` FROM issues WHERE project_id = ? ORDER BY id`, projectID)
}

// IssuesByProfile returns issues created by or assigned to a profile.
func (t *Tx) IssuesByProfile(profileID int64) ([]model.Issue, error) {
	return t.issueList(`
SELECT `+issueColumns+` FROM issues
WHERE created_by = ? OR assignee_id = ?
ORDER BY id`, profileID, profileID)
}

func (t *Tx) SetIssueLabels(issueID int64, labelIDs []int64) error {
	if _, err := t.tx.Exec(`DELETE FROM issue_label_links WHERE issue_id = ?`, issueID); err != nil {
		return err
	}
	for _, labelID := range labelIDs {
		if _, err := t.tx.Exec(`
INSERT INTO issue_label_links (issue_id, label_id) VALUES (?, ?)`, issueID, labelID); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tx) LabelPublicIDsByIssue(issueID int64) ([]string, error) {
	rows, err := t.tx.Query(`
SELECT l.public_id FROM issue_label_links ll
JOIN issue_labels l ON l.id = ll.label_id
WHERE ll.issue_id = ?
ORDER BY l.id`, issueID)
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
