package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateTeam(name, description string) (model.Team, error) {
	team := model.Team{
		PublicID:    uuid.NewString(),
		Name:        name,
		Description: description,
	}
	res, err := t.tx.Exec(`
INSERT INTO teams (public_id, name, description) VALUES (?, ?, ?)`,
		team.PublicID, team.Name, team.Description)
	if err != nil {
		return model.Team{}, err
	}
	team.ID, err = res.LastInsertId()
	return team, err
}

func (t *Tx) teamRow(query string, args ...any) (model.Team, error) {
	var team model.Team
	err := t.tx.QueryRow(query, args...).Scan(&team.ID, &team.PublicID, &team.Name, &team.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Team{}, ErrNotFound
	}
	return team, err
}

func (t *Tx) TeamByPublicID(publicID string) (model.Team, error) {
	return t.teamRow(`SELECT id, public_id, name, description FROM teams WHERE public_id = ?`, publicID)
}

func (t *Tx) TeamByID(id int64) (model.Team, error) {
	return t.teamRow(`SELECT id, public_id, name, description FROM teams WHERE id = ?`, id)
}

func (t *Tx) UpdateTeam(id int64, name, description string) error {
	_, err := t.tx.Exec(`UPDATE teams SET name = ?, description = ? WHERE id = ?`, name, description, id)
	return err
}

func (t *Tx) TeamMemberPublicIDs(teamID int64) ([]string, error) {
	rows, err := t.tx.Query(`
SELECT public_id FROM user_profiles WHERE team_id = ? ORDER BY id`, teamID)
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
