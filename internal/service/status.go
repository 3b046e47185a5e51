package service

import (
	"errors"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

// Status options for an issue are exactly the columns of the board its
// placement sits on. An unplaced issue has no status: empty options, nil
// current.

func (s *Service) StatusOptions(actorID int64, issuePublicID string) (model.StatusView, error) {
	var view model.StatusView
	err := s.store.View(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		view, err = statusViewForIssue(tx, issue)
		return err
	})
	if err != nil {
		return model.StatusView{}, err
	}
	return view, nil
}

// ChangeStatus relocates an issue's placement to another column on the same
// board and returns the refreshed options.
func (s *Service) ChangeStatus(actorID int64, issuePublicID, columnPublicID string) (model.StatusView, error) {
	var (
		view    model.StatusView
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		item, err := tx.ItemByIssueID(issue.ID)
		if errors.Is(err, store.ErrNotFound) {
			return newError(CodeInvalidState, "issue has no status to update", err)
		}
		if err != nil {
			return newError(CodeInternal, "placement lookup failed", err)
		}
		currentColumn, err := tx.ColumnByID(item.ColumnID)
		if err != nil {
			return newError(CodeInternal, "placement references missing column", err)
		}
		target, err := tx.ColumnByPublicID(columnPublicID)
		if err != nil {
			return storeErr("invalid status option", err)
		}
		if target.BoardID != currentColumn.BoardID {
			return newError(CodeInvalidRelation, "invalid status option for this project board", nil)
		}
		if err := tx.MoveItem(item.ID, target.ID, item.Position); err != nil {
			return storeErr("move board item failed", err)
		}
		view, err = statusViewForIssue(tx, issue)
		if err != nil {
			return err
		}
		project, err = tx.ProjectByID(issue.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return nil
	})
	if err != nil {
		return model.StatusView{}, err
	}
	s.logger.Info("issue status changed", "issue", issuePublicID, "column", columnPublicID)
	s.publish(model.Event{Type: model.EventTypeStatusChanged, Project: project.PublicID, IssueID: issuePublicID})
	return view, nil
}

func statusViewForIssue(tx *store.Tx, issue model.Issue) (model.StatusView, error) {
	view := model.StatusView{Options: []model.StatusOption{}}

	item, err := tx.ItemByIssueID(issue.ID)
	if errors.Is(err, store.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return model.StatusView{}, newError(CodeInternal, "placement lookup failed", err)
	}
	current, err := tx.ColumnByID(item.ColumnID)
	if err != nil {
		return model.StatusView{}, newError(CodeInternal, "placement references missing column", err)
	}
	board, err := tx.BoardByID(current.BoardID)
	if err != nil {
		return model.StatusView{}, newError(CodeInternal, "column references missing board", err)
	}
	columns, err := tx.ColumnsByBoard(board.ID)
	if err != nil {
		return model.StatusView{}, newError(CodeInternal, "load columns failed", err)
	}
	for _, column := range columns {
		option := model.StatusOption{
			ID:      column.PublicID,
			Name:    column.Name,
			BoardID: board.PublicID,
		}
		view.Options = append(view.Options, option)
		if column.ID == current.ID {
			matched := option
			view.Current = &matched
		}
	}
	return view, nil
}
