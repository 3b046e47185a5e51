package service

import (
	"database/sql"
	"errors"
	"time"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

type IssueCreate struct {
	ProjectID   string
	Title       string
	Description string
	Priority    model.Priority
	Type        model.IssueType
	DueDate     *time.Time
	StartDate   *time.Time
	AssigneeID  string
	ParentID    string
}

type IssueUpdate struct {
	Title       *string
	Description *string
	Priority    *model.Priority
	Type        *model.IssueType
	DueDate     *time.Time
	StartDate   *time.Time
	AssigneeID  *string // empty string clears the assignee
	ParentID    *string // empty string clears the parent
	LabelIDs    *[]string
	ProjectID   *string
}

func (s *Service) CreateIssue(actorID int64, in IssueCreate) (model.IssueView, error) {
	if _, ok := model.AllowedPriorities[in.Priority]; !ok {
		return model.IssueView{}, newError(CodeValidation, "invalid priority", nil)
	}
	if _, ok := model.AllowedIssueTypes[in.Type]; !ok {
		return model.IssueView{}, newError(CodeValidation, "invalid issue type", nil)
	}

	var (
		view    model.IssueView
		project model.Project
	)
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		project, err = tx.ProjectByPublicID(in.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		if err := requireProjectMember(tx, project.ID, actorID); err != nil {
			return err
		}

		issue := model.Issue{
			ProjectID:   project.ID,
			Title:       in.Title,
			Description: in.Description,
			Priority:    in.Priority,
			Type:        in.Type,
			CreatedByID: actorID,
		}
		if in.DueDate != nil {
			issue.DueDate = sql.NullTime{Time: in.DueDate.UTC(), Valid: true}
		}
		if in.StartDate != nil {
			issue.StartDate = sql.NullTime{Time: in.StartDate.UTC(), Valid: true}
		}
		if in.AssigneeID != "" {
			assignee, err := tx.ProfileByPublicID(in.AssigneeID)
			if err != nil {
				return newError(CodeValidation, "assignee not found", err)
			}
			issue.AssigneeID = sql.NullInt64{Int64: assignee.ID, Valid: true}
		}
		if in.ParentID != "" {
			parent, err := tx.IssueByPublicID(in.ParentID)
			if err != nil {
				return newError(CodeValidation, "parent issue not found", err)
			}
			if parent.ProjectID != project.ID {
				return newError(CodeInvalidRelation, "parent issue belongs to a different project", nil)
			}
			issue.ParentID = sql.NullInt64{Int64: parent.ID, Valid: true}
		}

		created, err := tx.CreateIssue(issue)
		if err != nil {
			return newError(CodeInternal, "create issue failed", err)
		}
		view, err = assembleIssue(tx, created)
		return err
	})
	if err != nil {
		return model.IssueView{}, err
	}
	s.logger.Info("issue created", "issue", view.ID, "project", project.PublicID)
	s.publish(model.Event{Type: model.EventTypeIssueCreated, Project: project.PublicID, IssueID: view.ID})
	return view, nil
}

func (s *Service) GetIssue(actorID int64, issuePublicID string) (model.IssueView, error) {
	var view model.IssueView
	err := s.store.View(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		view, err = assembleIssue(tx, issue)
		return err
	})
	if err != nil {
		return model.IssueView{}, err
	}
	return view, nil
}

func (s *Service) UpdateIssue(actorID int64, issuePublicID string, in IssueUpdate) (model.IssueView, error) {
	var (
		view    model.IssueView
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
		before := issue

		if in.ProjectID != nil {
			target, err := tx.ProjectByPublicID(*in.ProjectID)
			if err != nil {
				return newError(CodeValidation, "project not found", err)
			}
			if err := requireProjectMember(tx, target.ID, actorID); err != nil {
				return err
			}
			issue.ProjectID = target.ID
		}
		if in.Title != nil {
			issue.Title = *in.Title
		}
		if in.Description != nil {
			issue.Description = *in.Description
		}
		if in.Priority != nil {
			if _, ok := model.AllowedPriorities[*in.Priority]; !ok {
				return newError(CodeValidation, "invalid priority", nil)
			}
			issue.Priority = *in.Priority
		}
		if in.Type != nil {
			if _, ok := model.AllowedIssueTypes[*in.Type]; !ok {
				return newError(CodeValidation, "invalid issue type", nil)
			}
			issue.Type = *in.Type
		}
		if in.DueDate != nil {
			issue.DueDate = sql.NullTime{Time: in.DueDate.UTC(), Valid: true}
		}
		if in.StartDate != nil {
			issue.StartDate = sql.NullTime{Time: in.StartDate.UTC(), Valid: true}
		}
		if in.AssigneeID != nil {
			if *in.AssigneeID == "" {
				issue.AssigneeID = sql.NullInt64{}
			} else {
				assignee, err := tx.ProfileByPublicID(*in.AssigneeID)
				if err != nil {
					return newError(CodeValidation, "assignee not found", err)
				}
				issue.AssigneeID = sql.NullInt64{Int64: assignee.ID, Valid: true}
			}
		}
		if in.ParentID != nil {
			if *in.ParentID == "" {
				issue.ParentID = sql.NullInt64{}
			} else {
				if *in.ParentID == issuePublicID {
					return newError(CodeInvalidRelation, "issue cannot be its own parent", nil)
				}
				parent, err := tx.IssueByPublicID(*in.ParentID)
				if err != nil {
					return newError(CodeValidation, "parent issue not found", err)
				}
				if parent.ProjectID != issue.ProjectID {
					return newError(CodeInvalidRelation, "parent issue belongs to a different project", nil)
				}
				cyclic, err := issueWouldCycle(tx, parent.ID, issue.ID)
				if err != nil {
					return newError(CodeInternal, "cycle check failed", err)
				}
				if cyclic {
					return newError(CodeInvalidRelation, "circular parent relationship detected", nil)
				}
				issue.ParentID = sql.NullInt64{Int64: parent.ID, Valid: true}
			}
		}

		updated, err := tx.UpdateIssue(issue)
		if err != nil {
			return storeErr("update issue failed", err)
		}
		if err := recordIssueChanges(tx, actorID, before, updated); err != nil {
			return newError(CodeInternal, "record history failed", err)
		}

		if in.LabelIDs != nil {
			labelIDs := make([]int64, 0, len(*in.LabelIDs))
			for _, publicID := range *in.LabelIDs {
				label, err := tx.LabelByPublicID(publicID)
				if err != nil {
					return newError(CodeValidation, "label not found", err)
				}
				if label.ProjectID != updated.ProjectID {
					return newError(CodeInvalidRelation, "label belongs to a different project", nil)
				}
				labelIDs = append(labelIDs, label.ID)
			}
			if err := tx.SetIssueLabels(updated.ID, labelIDs); err != nil {
				return newError(CodeInternal, "set labels failed", err)
			}
		}

		project, err = tx.ProjectByID(updated.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		view, err = assembleIssue(tx, updated)
		return err
	})
	if err != nil {
		return model.IssueView{}, err
	}
	s.logger.Info("issue updated", "issue", issuePublicID)
	s.publish(model.Event{Type: model.EventTypeIssueUpdated, Project: project.PublicID, IssueID: issuePublicID})
	return view, nil
}

// DeleteIssue removes an issue; the placement row cascades and children are
// unlinked by the store's ON DELETE SET NULL.
func (s *Service) DeleteIssue(actorID int64, issuePublicID string) error {
	var project model.Project
	err := s.store.Update(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		project, err = tx.ProjectByID(issue.ProjectID)
		if err != nil {
			return storeErr("project not found", err)
		}
		if err := tx.DeleteIssue(issue.ID); err != nil {
			return storeErr("delete issue failed", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("issue deleted", "issue", issuePublicID)
	s.publish(model.Event{Type: model.EventTypeIssueDeleted, Project: project.PublicID, IssueID: issuePublicID})
	return nil
}

func (s *Service) IssueHistory(actorID int64, issuePublicID string) ([]model.HistoryView, error) {
	views := make([]model.HistoryView, 0)
	err := s.store.View(func(tx *store.Tx) error {
		issue, err := tx.IssueByPublicID(issuePublicID)
		if err != nil {
			return storeErr("issue not found", err)
		}
		if err := requireProjectMember(tx, issue.ProjectID, actorID); err != nil {
			return err
		}
		entries, err := tx.HistoryByIssue(issue.ID)
		if err != nil {
			return newError(CodeInternal, "load history failed", err)
		}
		for _, entry := range entries {
			author, err := tx.ProfileByID(entry.AuthorID)
			if err != nil {
				return newError(CodeInternal, "load history author failed", err)
			}
			views = append(views, model.HistoryView{
				ID:        entry.PublicID,
				IssueID:   issue.PublicID,
				AuthorID:  author.PublicID,
				Topic:     entry.Topic,
				Previous:  entry.Previous,
				Current:   entry.Current,
				CreatedAt: entry.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ProjectIssues lists every issue in a project, oldest first.
func (s *Service) ProjectIssues(actorID int64, projectPublicID string) ([]model.IssueView, error) {
	views := make([]model.IssueView, 0)
	err := s.store.View(func(tx *store.Tx) error {
		project, err := tx.ProjectByPublicID(projectPublicID)
		if err != nil {
			return storeErr("project not found", err)
		}
		if err := requireProjectMember(tx, project.ID, actorID); err != nil {
			return err
		}
		issues, err := tx.IssuesByProject(project.ID)
		if err != nil {
			return newError(CodeInternal, "list issues failed", err)
		}
		for _, issue := range issues {
			view, err := assembleIssue(tx, issue)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// UserIssues lists issues a user created or is assigned to, across projects.
func (s *Service) UserIssues(userPublicID string) ([]model.IssueView, error) {
	views := make([]model.IssueView, 0)
	err := s.store.View(func(tx *store.Tx) error {
		profile, err := tx.ProfileByPublicID(userPublicID)
		if err != nil {
			return storeErr("user not found", err)
		}
		issues, err := tx.IssuesByProfile(profile.ID)
		if err != nil {
			return newError(CodeInternal, "list issues failed", err)
		}
		for _, issue := range issues {
			view, err := assembleIssue(tx, issue)
			if err != nil {
				return err
			}
			views = append(views, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// UserHistory lists every change a user authored, oldest first.
func (s *Service) UserHistory(userPublicID string) ([]model.HistoryView, error) {
	views := make([]model.HistoryView, 0)
	err := s.store.View(func(tx *store.Tx) error {
		profile, err := tx.ProfileByPublicID(userPublicID)
		if err != nil {
			return storeErr("user not found", err)
		}
		entries, err := tx.HistoryByAuthor(profile.ID)
		if err != nil {
			return newError(CodeInternal, "load history failed", err)
		}
		for _, entry := range entries {
			issue, err := tx.IssueByID(entry.IssueID)
			if err != nil {
				return newError(CodeInternal, "history references missing issue", err)
			}
			views = append(views, model.HistoryView{
				ID:        entry.PublicID,
				IssueID:   issue.PublicID,
				AuthorID:  profile.PublicID,
				Topic:     entry.Topic,
				Previous:  entry.Previous,
				Current:   entry.Current,
				CreatedAt: entry.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// recordIssueChanges appends one history row per changed scalar field.
func recordIssueChanges(tx *store.Tx, actorID int64, before, after model.Issue) error {
	type change struct {
		topic             string
		previous, current string
	}
	changes := make([]change, 0, 4)
	if before.Title != after.Title {
		changes = append(changes, change{"title", before.Title, after.Title})
	}
	if before.Description != after.Description {
		changes = append(changes, change{"description", before.Description, after.Description})
	}
	if before.Priority != after.Priority {
		changes = append(changes, change{"priority", string(before.Priority), string(after.Priority)})
	}
	if before.Type != after.Type {
		changes = append(changes, change{"type", string(before.Type), string(after.Type)})
	}
	for _, c := range changes {
		if _, err := tx.AppendHistory(after.ID, actorID, c.topic, c.previous, c.current); err != nil {
			return err
		}
	}
	return nil
}

func assembleIssue(tx *store.Tx, issue model.Issue) (model.IssueView, error) {
	project, err := tx.ProjectByID(issue.ProjectID)
	if err != nil {
		return model.IssueView{}, newError(CodeInternal, "issue references missing project", err)
	}
	creator, err := tx.ProfileByID(issue.CreatedByID)
	if err != nil {
		return model.IssueView{}, newError(CodeInternal, "issue references missing creator", err)
	}

	view := model.IssueView{
		ID:          issue.PublicID,
		ProjectID:   project.PublicID,
		Title:       issue.Title,
		Description: issue.Description,
		Priority:    issue.Priority,
		Type:        issue.Type,
		CreatedByID: creator.PublicID,
		ChildIDs:    []string{},
		LabelIDs:    []string{},
		CommentIDs:  []string{},
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
	if issue.DueDate.Valid {
		due := issue.DueDate.Time
		view.DueDate = &due
	}
	if issue.StartDate.Valid {
		start := issue.StartDate.Time
		view.StartDate = &start
	}
	if issue.AssigneeID.Valid {
		assignee, err := tx.ProfileByID(issue.AssigneeID.Int64)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.IssueView{}, newError(CodeInternal, "load assignee failed", err)
		}
		if err == nil {
			view.AssigneeID = assignee.PublicID
		}
	}
	if issue.ParentID.Valid {
		parent, err := tx.IssueByID(issue.ParentID.Int64)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.IssueView{}, newError(CodeInternal, "load parent failed", err)
		}
		if err == nil {
			view.ParentID = parent.PublicID
		}
	}

	children, err := tx.ChildIssues(issue.ID)
	if err != nil {
		return model.IssueView{}, newError(CodeInternal, "load children failed", err)
	}
	for _, child := range children {
		view.ChildIDs = append(view.ChildIDs, child.PublicID)
	}
	view.LabelIDs, err = tx.LabelPublicIDsByIssue(issue.ID)
	if err != nil {
		return model.IssueView{}, newError(CodeInternal, "load labels failed", err)
	}
	comments, err := tx.CommentsByIssue(issue.ID)
	if err != nil {
		return model.IssueView{}, newError(CodeInternal, "load comments failed", err)
	}
	for _, comment := range comments {
		view.CommentIDs = append(view.CommentIDs, comment.PublicID)
	}

	if item, err := tx.ItemByIssueID(issue.ID); err == nil {
		column, err := tx.ColumnByID(item.ColumnID)
		if err != nil {
			return model.IssueView{}, newError(CodeInternal, "placement references missing column", err)
		}
		board, err := tx.BoardByID(column.BoardID)
		if err != nil {
			return model.IssueView{}, newError(CodeInternal, "column references missing board", err)
		}
		view.BoardID = board.PublicID
	} else if !errors.Is(err, store.ErrNotFound) {
		return model.IssueView{}, newError(CodeInternal, "placement lookup failed", err)
	}
	return view, nil
}
