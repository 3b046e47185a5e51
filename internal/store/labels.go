package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateLabel(projectID int64, name, color string) (model.Label, error) {
	l := model.Label{
		PublicID:  uuid.NewString(),
		ProjectID: projectID,
		Name:      name,
		Color:     color,
	}
	res, err := t.tx.Exec(`
INSERT INTO issue_labels (public_id, project_id, name, color)
VALUES (?, ?, ?, ?)`, l.PublicID, l.ProjectID, l.Name, l.Color)
	if err != nil {
		return model.Label{}, err
	}
	l.ID, err = res.LastInsertId()
	return l, err
}

func (t *Tx) LabelByPublicID(publicID string) (model.Label, error) {
	var l model.Label
	err := t.tx.QueryRow(`
SELECT id, public_id, project_id, name, color FROM issue_labels WHERE public_id = ?`,
		publicID).Scan(&l.ID, &l.PublicID, &l.ProjectID, &l.Name, &l.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Label{}, ErrNotFound
	}
	return l, err
}

func (t *Tx) LabelsByProject(projectID int64) ([]model.Label, error) {
	rows, err := t.tx.Query(`
SELECT id, public_id, project_id, name, color FROM issue_labels
WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]model.Label, 0)
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.PublicID, &l.ProjectID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
