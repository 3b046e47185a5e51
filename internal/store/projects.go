package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateProject(name, description string) (model.Project, error) {
	now := time.Now().UTC()
	p := model.Project{
		PublicID:    uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := t.tx.Exec(`
INSERT INTO projects (public_id, name, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		p.PublicID, p.Name, p.Description, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return model.Project{}, err
	}
	p.ID, err = res.LastInsertId()
	return p, err
}

func (t *Tx) projectRow(query string, args ...any) (model.Project, error) {
	var (
		project          model.Project
		created, updated string
	)
	err := t.tx.QueryRow(query, args...).Scan(
		&project.ID, &project.PublicID, &project.Name, &project.Description, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, ErrNotFound
	}
	if err != nil {
		return model.Project{}, err
	}
	if project.CreatedAt, err = parseTime(created); err != nil {
		return model.Project{}, err
	}
	if project.UpdatedAt, err = parseTime(updated); err != nil {
		return model.Project{}, err
	}
	return project, nil
}

const projectColumns = `id, public_id, name, description, created_at, updated_at`

func (t *Tx) ProjectByPublicID(publicID string) (model.Project, error) {
	return t.projectRow(`SELECT `+projectColumns+` FROM projects WHERE public_id = ?`, publicID)
}

func (t *Tx) ProjectByID(id int64) (model.Project, error) {
	return t.projectRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
}

func (t *Tx) AddProjectMember(projectID, profileID int64) error {
	_, err := t.tx.Exec(`
INSERT INTO project_members (project_id, profile_id) VALUES (?, ?)
ON CONFLICT DO NOTHING`, projectID, profileID)
	return err
}

func (t *Tx) IsProjectMember(projectID, profileID int64) (bool, error) {
	var one int
	err := t.tx.QueryRow(`
SELECT 1 FROM project_members WHERE project_id = ? AND profile_id = ?`,
		projectID, profileID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (t *Tx) ProjectsByMember(profileID int64) ([]model.Project, error) {
	rows, err := t.tx.Query(`
SELECT p.id, p.public_id, p.name, p.description, p.created_at, p.updated_at
FROM projects p
JOIN project_members pm ON pm.project_id = p.id
WHERE pm.profile_id = ?
ORDER BY p.id`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		var (
			project          model.Project
			created, updated string
		)
		if err := rows.Scan(&project.ID, &project.PublicID, &project.Name, &project.Description, &created, &updated); err != nil {
			return nil, err
		}
		if project.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if project.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (t *Tx) ProjectMemberPublicIDs(projectID int64) ([]string, error) {
	rows, err := t.tx.Query(`
SELECT up.public_id FROM project_members pm
JOIN user_profiles up ON up.id = pm.profile_id
WHERE pm.project_id = ?
ORDER BY up.id`, projectID)
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
