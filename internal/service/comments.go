package service

import (
	"database/sql"
	"errors"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

func (s *Service) CreateComment(actorID int64, issuePublicID, parentPublicID, text string) (model.CommentView, error) {
	var (
		view    model.CommentView
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

		parentID := sql.NullInt64{}
		if parentPublicID != "" {
			parent, err := tx.CommentByPublicID(parentPublicID)
			if err != nil {
				return newError(CodeValidation, "parent comment not found", err)
			}
			if parent.IssueID != issue.ID {
				return newError(CodeInvalidRelation, "parent comment belongs to a different issue", nil)
			}
			cyclic, err := commentChainLoops(tx, parent.ID)
			if err != nil {
				return newError(CodeInternal, "cycle check failed", err)
			}
			if cyclic {
				return newError(CodeInvalidRelation, "cyclic parent comment reference detected", nil)
			}
			parentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		}

		comment, err := tx.CreateComment(issue.ID, actorID, parentID, text)
		if err != nil {
			return newError(CodeInternal, "create comment failed", err)
		}
		project, err = tx.ProjectByID(issue.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		view, err = assembleComment(tx, comment)
		return err
	})
	if err != nil {
		return model.CommentView{}, err
	}
	s.logger.Info("comment created", "comment", view.ID, "issue", issuePublicID)
	s.publish(model.Event{Type: model.EventTypeCommentCreated, Project: project.PublicID, IssueID: issuePublicID})
	return view, nil
}

func (s *Service) GetComment(actorID int64, commentPublicID string) (model.CommentView, error) {
	var view model.CommentView
	err := s.store.View(func(tx *store.Tx) error {
		comment, err := tx.CommentByPublicID(commentPublicID)
		if err != nil {
			return storeErr("comment not found", err)
		}
		issue, err := tx.IssueByID(comment.IssueID)
		if err != nil {
			return newError(CodeInternal, "comment references missing issue", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		view, err = assembleComment(tx, comment)
		return err
	})
	if err != nil {
		return model.CommentView{}, err
	}
	return view, nil
}

type CommentUpdate struct {
	Text  *string
	Liked *bool
}

// UpdateComment edits text (author only) and toggles the actor's like.
func (s *Service) UpdateComment(actorID int64, commentPublicID string, in CommentUpdate) (model.CommentView, error) {
	var (
		view    model.CommentView
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		comment, err := tx.CommentByPublicID(commentPublicID)
		if err != nil {
			return storeErr("comment not found", err)
		}
		issue, err := tx.IssueByID(comment.IssueID)
		if err != nil {
			return newError(CodeInternal, "comment references missing issue", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}

		if in.Text != nil {
			if comment.AuthorID != actorID {
				return newError(CodeForbidden, "only the author can edit a comment", nil)
			}
			if err := tx.UpdateCommentText(comment.ID, *in.Text); err != nil {
				return storeErr("update comment failed", err)
			}
		}
		if in.Liked != nil {
			if *in.Liked {
				err = tx.LikeComment(comment.ID, actorID)
			} else {
				err = tx.UnlikeComment(comment.ID, actorID)
			}
			if err != nil {
				return newError(CodeInternal, "update comment like failed", err)
			}
			if err := tx.TouchComment(comment.ID); err != nil {
				return newError(CodeInternal, "update comment failed", err)
			}
		}

		comment, err = tx.CommentByID(comment.ID)
		if err != nil {
			return newError(CodeInternal, "reload comment failed", err)
		}
		project, err = tx.ProjectByID(issue.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		view, err = assembleComment(tx, comment)
		return err
	})
	if err != nil {
		return model.CommentView{}, err
	}
	s.logger.Info("comment updated", "comment", commentPublicID)
	s.publish(model.Event{Type: model.EventTypeCommentUpdated, Project: project.PublicID})
	return view, nil
}

func assembleComment(tx *store.Tx, comment model.Comment) (model.CommentView, error) {
	issue, err := tx.IssueByID(comment.IssueID)
	if err != nil {
		return model.CommentView{}, newError(CodeInternal, "comment references missing issue", err)
	}
	author, err := tx.ProfileByID(comment.AuthorID)
	if err != nil {
		return model.CommentView{}, newError(CodeInternal, "comment references missing author", err)
	}
	view := model.CommentView{
		ID:        comment.PublicID,
		IssueID:   issue.PublicID,
		AuthorID:  author.PublicID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if comment.ParentID.Valid {
		parent, err := tx.CommentByID(comment.ParentID.Int64)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.CommentView{}, newError(CodeInternal, "load parent comment failed", err)
		}
		if err == nil {
			view.ParentID = parent.PublicID
		}
	}
	view.LikedByUserIDs, err = tx.LikerPublicIDs(comment.ID)
	if err != nil {
		return model.CommentView{}, newError(CodeInternal, "load comment likes failed", err)
	}
	return view, nil
}
