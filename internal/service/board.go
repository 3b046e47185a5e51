package service

import (
	"errors"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

func (s *Service) CreateBoard(actorID int64, projectPublicID, name, description string) (model.BoardView, error) {
	var (
		board   model.Board
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		project, err = tx.ProjectByPublicID(projectPublicID)
		if err != nil {
			return storeErr("project not found", err)
		}
		if err := requireProjectMember(tx, project.ID, actorID); err != nil {
			return err
		}
		board, err = tx.CreateBoard(project.ID, name, description)
		if err != nil {
			return newError(CodeInternal, "create board failed", err)
		}
		return nil
	})
	if err != nil {
		return model.BoardView{}, err
	}
	s.logger.Info("board created", "board", board.PublicID, "project", project.PublicID)
	s.publish(model.Event{Type: model.EventTypeBoardCreated, Project: project.PublicID, BoardID: board.PublicID})
	return model.BoardView{
		ID:          board.PublicID,
		ProjectID:   project.PublicID,
		Name:        board.Name,
		Description: board.Description,
		Columns:     []model.ColumnView{},
	}, nil
}

func (s *Service) CreateColumn(actorID int64, boardPublicID, name, description string, position int) (model.ColumnView, error) {
	var (
		column  model.Column
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
		project, err = tx.ProjectByID(board.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		column, err = tx.CreateColumn(board.ID, name, description, position)
		if err != nil {
			return newError(CodeInternal, "create column failed", err)
		}
		return nil
	})
	if err != nil {
		return model.ColumnView{}, err
	}
	s.logger.Info("column created", "column", column.PublicID, "board", boardPublicID)
	s.publish(model.Event{Type: model.EventTypeColumnCreated, Project: project.PublicID, BoardID: boardPublicID})
	return model.ColumnView{
		ID:          column.PublicID,
		Name:        column.Name,
		Description: column.Description,
		Position:    column.Position,
		Items:       []model.ItemView{},
	}, nil
}

// GetBoard assembles the nested board view: columns sorted by
// (position, id), items within each column sorted the same way, each item
// denormalized with its issue summary and assignee.
func (s *Service) GetBoard(actorID int64, boardPublicID string) (model.BoardView, error) {
	var view model.BoardView
	err := s.store.View(func(tx *store.Tx) error {
		board, err := tx.BoardByPublicID(boardPublicID)
		if err != nil {
			return storeErr("project board not found", err)
		}
		if err := requireProjectMember(tx, board.ProjectID, actorID); err != nil {
			return err
		}
		view, err = assembleBoard(tx, board)
		return err
	})
	if err != nil {
		return model.BoardView{}, err
	}
	return view, nil
}

func assembleBoard(tx *store.Tx, board model.Board) (model.BoardView, error) {
	project, err := tx.ProjectByID(board.ProjectID)
	if err != nil {
		return model.BoardView{}, storeErr("project not found", err)
	}
	columns, err := tx.ColumnsByBoard(board.ID)
	if err != nil {
		return model.BoardView{}, newError(CodeInternal, "load columns failed", err)
	}

	view := model.BoardView{
		ID:          board.PublicID,
		ProjectID:   project.PublicID,
		Name:        board.Name,
		Description: board.Description,
		Columns:     make([]model.ColumnView, 0, len(columns)),
	}
	for _, column := range columns {
		items, err := tx.ItemsByColumn(column.ID)
		if err != nil {
			return model.BoardView{}, newError(CodeInternal, "load column items failed", err)
		}
		columnView := model.ColumnView{
			ID:          column.PublicID,
			Name:        column.Name,
			Description: column.Description,
			Position:    column.Position,
			Items:       make([]model.ItemView, 0, len(items)),
		}
		for _, item := range items {
			itemView, err := assembleItem(tx, item)
			if err != nil {
				return model.BoardView{}, err
			}
			columnView.Items = append(columnView.Items, itemView)
		}
		view.Columns = append(view.Columns, columnView)
	}
	return view, nil
}

// assembleItem resolves the issue summary behind a placement. A missing
// issue here is structural corruption, not a user error.
func assembleItem(tx *store.Tx, item model.ColumnItem) (model.ItemView, error) {
	issue, err := tx.IssueByID(item.IssueID)
	if err != nil {
		return model.ItemView{}, newError(CodeInternal, "board item references missing issue", err)
	}
	view := model.ItemView{
		ID:          item.PublicID,
		Position:    item.Position,
		IssueID:     issue.PublicID,
		Title:       issue.Title,
		Description: issue.Description,
	}
	if issue.DueDate.Valid {
		due := issue.DueDate.Time
		view.DueDate = &due
	}
	if issue.AssigneeID.Valid {
		assignee, err := tx.ProfileByID(issue.AssigneeID.Int64)
		if errors.Is(err, store.ErrNotFound) {
			return view, nil
		}
		if err != nil {
			return model.ItemView{}, newError(CodeInternal, "load assignee failed", err)
		}
		credential, err := tx.CredentialByID(assignee.CredentialID)
		if err != nil {
			return model.ItemView{}, newError(CodeInternal, "load assignee credential failed", err)
		}
		view.AssigneeName = assignee.FirstName + " " + assignee.LastName
		view.AssigneeEmail = credential.Email
	}
	return view, nil
}
