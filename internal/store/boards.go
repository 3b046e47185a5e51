package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateBoard(projectID int64, name, description string) (model.Board, error) {
	b := model.Board{
		PublicID:    uuid.NewString(),
		ProjectID:   projectID,
		Name:        name,
		Description: description,
	}
	res, err := t.tx.Exec(`
INSERT INTO project_boards (public_id, project_id, name, description)
VALUES (?, ?, ?, ?)`, b.PublicID, b.ProjectID, b.Name, b.Description)
	if err != nil {
		return model.Board{}, err
	}
	b.ID, err = res.LastInsertId()
	return b, err
}

func (t *Tx) boardRow(query string, args ...any) (model.Board, error) {
	var b model.Board
	err := t.tx.QueryRow(query, args...).Scan(&b.ID, &b.PublicID, &b.ProjectID, &b.Name, &b.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Board{}, ErrNotFound
	}
	return b, err
}

const boardColumns = `id, public_id, project_id, name, description`

func (t *Tx) BoardByPublicID(publicID string) (model.Board, error) {
	return t.boardRow(`SELECT `+boardColumns+` FROM project_boards WHERE public_id = ?`, publicID)
}

func (t *Tx) BoardByID(id int64) (model.Board, error) {
	return t.boardRow(`SELECT `+boardColumns+` FROM project_boards WHERE id = ?`, id)
}

func (t *Tx) BoardsByProject(projectID int64) ([]model.Board, error) {
	rows, err := t.tx.Query(`
SELECT `+boardColumns+` FROM project_boards WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := make([]model.Board, 0)
	for rows.Next() {
		var b model.Board
		if err := rows.Scan(&b.ID, &b.PublicID, &b.ProjectID, &b.Name, &b.Description); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (t *Tx) CreateColumn(boardID int64, name, description string, position int) (model.Column, error) {
	c := model.Column{
		PublicID:    uuid.NewString(),
		BoardID:     boardID,
		Name:        name,
		Description: description,
		Position:    position,
	}
	res, err := t.tx.Exec(`
INSERT INTO project_board_columns (public_id, board_id, name, description, position)
VALUES (?, ?, ?, ?, ?)`, c.PublicID, c.BoardID, c.Name, c.Description, c.Position)
	if err != nil {
		return model.Column{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

func (t *Tx) columnRow(query string, args ...any) (model.Column, error) {
	var c model.Column
	err := t.tx.QueryRow(query, args...).Scan(&c.ID, &c.PublicID, &c.BoardID, &c.Name, &c.Description, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Column{}, ErrNotFound
	}
	return c, err
}

const columnColumns = `id, public_id, board_id, name, description, position`

func (t *Tx) ColumnByPublicID(publicID string) (model.Column, error) {
	return t.columnRow(`SELECT `+columnColumns+` FROM project_board_columns WHERE public_id = ?`, publicID)
}

func (t *Tx) ColumnByID(id int64) (model.Column, error) {
	return t.columnRow(`SELECT `+columnColumns+` FROM project_board_columns WHERE id = ?`, id)
}

// ColumnsByBoard returns columns sorted by (position, id); position is an
// ordering key, not a dense index, so the id tie-break keeps reads stable.
func (t *Tx) ColumnsByBoard(boardID int64) ([]model.Column, error) {
	rows, err := t.tx.Query(`
SELECT `+columnColumns+` FROM project_board_columns
WHERE board_id = ?
ORDER BY position, id`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make([]model.Column, 0)
	for rows.Next() {
		var c model.Column
		if err := rows.Scan(&c.ID, &c.PublicID, &c.BoardID, &c.Name, &c.Description, &c.Position); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (t *Tx) UpdateColumn(id int64, name string, position int) error {
	res, err := t.tx.Exec(`
UPDATE project_board_columns SET name = ?, position = ? WHERE id = ?`, name, position, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
