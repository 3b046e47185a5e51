package service

import (
	"errors"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

// Ordering engine. Positions are loosely packed integers: a move is a
// single-row write, never a renumbering of neighbours. Readers sort by
// (position, id), so ties stay deterministic.

// PlaceIssue creates a column item for an issue that has no placement yet.
// A nil position appends after the current maximum.
func (s *Service) PlaceIssue(actorID int64, issuePublicID, columnPublicID string, position *int) (model.ColumnItem, error) {
	var (
		item    model.ColumnItem
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		column, err := tx.ColumnByPublicID(columnPublicID)
		if err != nil {
			return storeErr("project board column not found", err)
		}
		board, err := tx.BoardByID(column.BoardID)
		if err != nil {
			return storeErr("project board not found", err)
		}
		if issue.ProjectID != board.ProjectID {
			return newError(CodeInvalidRelation, "issue and board column must belong to the same project", nil)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		if _, err := tx.ItemByIssueID(issue.ID); err == nil {
			return newError(CodeConflict, "issue already has a board placement", nil)
		} else if !errors.Is(err, store.ErrNotFound) {
			return newError(CodeInternal, "placement lookup failed", err)
		}

		pos := 0
		if position != nil {
			pos = *position
		} else {
			max, err := tx.MaxItemPosition(column.ID)
			if err != nil {
				return newError(CodeInternal, "position lookup failed", err)
			}
			pos = max + 1
		}

		item, err = tx.CreateItem(column.ID, issue.ID, pos)
		if errors.Is(err, store.ErrDuplicatePlacement) {
			return newError(CodeConflict, "issue already has a board placement", err)
		}
		if err != nil {
			return newError(CodeInternal, "create board item failed", err)
		}
		project, err = tx.ProjectByID(issue.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return nil
	})
	if err != nil {
		return model.ColumnItem{}, err
	}
	s.logger.Info("issue placed", "issue", issuePublicID, "column", columnPublicID, "position", item.Position)
	s.publish(model.Event{Type: model.EventTypeItemPlaced, Project: project.PublicID, IssueID: issuePublicID})
	return item, nil
}

// MoveItem relocates an item within its board, possibly across columns.
func (s *Service) MoveItem(actorID int64, itemPublicID, targetColumnPublicID string, position int) error {
	var project model.Project
	err := s.store.Update(func(tx *store.Tx) error {
		item, err := tx.ItemByPublicID(itemPublicID)
		if err != nil {
			return storeErr("project board item not found", err)
		}
		currentColumn, err := tx.ColumnByID(item.ColumnID)
		if err != nil {
			return storeErr("project board column not found", err)
		}
		target, err := tx.ColumnByPublicID(targetColumnPublicID)
		if err != nil {
			return storeErr("project board column not found", err)
		}
		if currentColumn.BoardID != target.BoardID {
			return newError(CodeInvalidRelation, "cannot move item to a column in a different board", nil)
		}
		board, err := tx.BoardByID(target.BoardID)
		if err != nil {
			return storeErr("project board not found", err)
		}
		if err := requireProjectMember(tx, board.ProjectID, actorID); err != nil {
			return err
		}
		if err := tx.MoveItem(item.ID, target.ID, position); err != nil {
			return storeErr("move board item failed", err)
		}
		project, err = tx.ProjectByID(board.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("board item moved", "item", itemPublicID, "column", targetColumnPublicID, "position", position)
	s.publish(model.Event{Type: model.EventTypeItemMoved, Project: project.PublicID})
	return nil
}

// RemoveItem deletes a placement. The issue's back-reference is the item row
// itself, so deleting the row leaves the issue unplaced with nothing
// dangling.
func (s *Service) RemoveItem(actorID int64, itemPublicID string) error {
	var project model.Project
	err := s.store.Update(func(tx *store.Tx) error {
		item, err := tx.ItemByPublicID(itemPublicID)
		if err != nil {
			return storeErr("project board item not found", err)
		}
		column, err := tx.ColumnByID(item.ColumnID)
		if err != nil {
			return storeErr("project board column not found", err)
		}
		board, err := tx.BoardByID(column.BoardID)
		if err != nil {
			return storeErr("project board not found", err)
		}
		if err := requireProjectMember(tx, board.ProjectID, actorID); err != nil {
			return err
		}
		if err := tx.DeleteItem(item.ID); err != nil {
			return storeErr("delete board item failed", err)
		}
		project, err = tx.ProjectByID(board.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("board item removed", "item", itemPublicID)
	s.publish(model.Event{Type: model.EventTypeItemRemoved, Project: project.PublicID})
	return nil
}

type ItemReorder struct {
	ItemID   string
	Position int
}

type ColumnReorder struct {
	ColumnID string
	Name     string
	Position int
	Items    []ItemReorder
}

// BulkReorder replaces the layout of an entire board in one transaction.
// Drag-and-drop clients submit the full snapshot; applying it atomically
// means concurrent readers never observe columns renumbered while items are
// not. Any unknown or foreign reference aborts the whole operation.
func (s *Service) BulkReorder(actorID int64, boardPublicID string, columns []ColumnReorder) (model.BoardView, error) {
	var (
		view    model.BoardView
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		board, err := tx.BoardByPublicID(boardPublicID)
		if err != nil {
			return storeErr("project board not found", err)
		}
		if err := requireProjectMember(tx, board.ProjectID, actorID); err != nil {
			return err
		}
		for _, col := range columns {
			column, err := tx.ColumnByPublicID(col.ColumnID)
			if err != nil {
				return storeErr("project board column not found", err)
			}
			if column.BoardID != board.ID {
				return newError(CodeInvalidRelation, "column does not belong to this board", nil)
			}
			name := col.Name
			if name == "" {
				name = column.Name
			}
			if err := tx.UpdateColumn(column.ID, name, col.Position); err != nil {
				return storeErr("update column failed", err)
			}
			for _, it := range col.Items {
				item, err := tx.ItemByPublicID(it.ItemID)
				if err != nil {
					return storeErr("project board item not found", err)
				}
				itemColumn, err := tx.ColumnByID(item.ColumnID)
				if err != nil {
					return storeErr("project board column not found", err)
				}
				if itemColumn.BoardID != board.ID {
					return newError(CodeInvalidRelation, "item does not belong to this board", nil)
				}
				if err := tx.MoveItem(item.ID, column.ID, it.Position); err != nil {
					return storeErr("move board item failed", err)
				}
			}
		}
		view, err = assembleBoard(tx, board)
		if err != nil {
			return err
		}
		project, err = tx.ProjectByID(board.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return nil
	})
	if err != nil {
		return model.BoardView{}, err
	}
	s.logger.Info("board reordered", "board", boardPublicID, "columns", len(columns))
	s.publish(model.Event{Type: model.EventTypeBoardUpdated, Project: project.PublicID, BoardID: boardPublicID})
	return view, nil
}
