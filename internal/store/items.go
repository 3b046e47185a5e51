package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

// ErrDuplicatePlacement surfaces the UNIQUE(issue_id) constraint on column
// items; it backs the one-active-placement-per-issue invariant even when
// two requests race past the service-level check.
var ErrDuplicatePlacement = errors.New("issue already placed on a board")

func (t *Tx) CreateItem(columnID, issueID int64, position int) (model.ColumnItem, error) {
	item := model.ColumnItem{
		PublicID: uuid.NewString(),
		ColumnID: columnID,
		IssueID:  issueID,
		Position: position,
	}
	res, err := t.tx.Exec(`
INSERT INTO project_board_column_items (public_id, column_id, issue_id, position)
VALUES (?, ?, ?, ?)`, item.PublicID, item.ColumnID, item.IssueID, item.Position)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: project_board_column_items.issue_id") {
			return model.ColumnItem{}, ErrDuplicatePlacement
		}
		return model.ColumnItem{}, err
	}
	item.ID, err = res.LastInsertId()
	return item, err
}

func (t *Tx) itemRow(query string, args ...any) (model.ColumnItem, error) {
	var item model.ColumnItem
	err := t.tx.QueryRow(query, args...).Scan(&item.ID, &item.PublicID, &item.ColumnID, &item.IssueID, &item.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ColumnItem{}, ErrNotFound
	}
	return item, err
}

const itemColumns = `id, public_id, column_id, issue_id, position`

func (t *Tx) ItemByPublicID(publicID string) (model.ColumnItem, error) {
	return t.itemRow(`SELECT `+itemColumns+` FROM project_board_column_items WHERE public_id = ?`, publicID)
}

func (t *Tx) ItemByID(id int64) (model.ColumnItem, error) {
	return t.itemRow(`SELECT `+itemColumns+` FROM project_board_column_items WHERE id = ?`, id)
}

// ItemByIssueID resolves an issue's current placement, if any.
func (t *Tx) ItemByIssueID(issueID int64) (model.ColumnItem, error) {
	return t.itemRow(`SELECT `+itemColumns+` FROM project_board_column_items WHERE issue_id = ?`, issueID)
}

func (t *Tx) ItemsByColumn(columnID int64) ([]model.ColumnItem, error) {
	rows, err := t.tx.Query(`
SELECT `+itemColumns+` FROM project_board_column_items
WHERE column_id = ?
ORDER BY position, id`, columnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ColumnItem, 0)
	for rows.Next() {
		var item model.ColumnItem
		if err := rows.Scan(&item.ID, &item.PublicID, &item.ColumnID, &item.IssueID, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (t *Tx) MoveItem(id, columnID int64, position int) error {
	res, err := t.tx.Exec(`
UPDATE project_board_column_items SET column_id = ?, position = ? WHERE id = ?`,
		columnID, position, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (t *Tx) DeleteItem(id int64) error {
	res, err := t.tx.Exec(`DELETE FROM project_board_column_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// MaxItemPosition returns the highest position in a column, 0 when empty.
func (t *Tx) MaxItemPosition(columnID int64) (int, error) {
	var max sql.NullInt64
	err := t.tx.QueryRow(`
SELECT MAX(position) FROM project_board_column_items WHERE column_id = ?`, columnID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}
