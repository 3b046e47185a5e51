package server

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
)

type createIssueRequest struct {
	ProjectID   string     `json:"project_id" minLength:"1"`
	Title       string     `json:"title" minLength:"1"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority" enum:"low,medium,high,urgent"`
	Type        string     `json:"type" enum:"EPIC,STORY,TASK"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
}

type createIssueInput struct {
	Body createIssueRequest
}

type issueOutput struct {
	Body model.IssueView
}

func (s *Server) createIssue(ctx context.Context, input *createIssueInput) (*issueOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	issue, err := s.service.CreateIssue(actorID, service.IssueCreate{
		ProjectID:   input.Body.ProjectID,
		Title:       input.Body.Title,
		Description: stringOrEmpty(input.Body.Description),
		Priority:    model.Priority(input.Body.Priority),
		Type:        model.IssueType(input.Body.Type),
		DueDate:     input.Body.DueDate,
		StartDate:   input.Body.StartDate,
		AssigneeID:  stringOrEmpty(input.Body.AssigneeID),
		ParentID:    stringOrEmpty(input.Body.ParentID),
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &issueOutput{Body: issue}, nil
}

type issuePathInput struct {
	Issue string `path:"issue"`
}

func (s *Server) getIssue(ctx context.Context, input *issuePathInput) (*issueOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	issue, err := s.service.GetIssue(actorID, input.Issue)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &issueOutput{Body: issue}, nil
}

type updateIssueRequest struct {
	ProjectID   *string    `json:"project_id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty" enum:"low,medium,high,urgent"`
	Type        *string    `json:"type,omitempty" enum:"EPIC,STORY,TASK"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
	LabelIDs    *[]string  `json:"label_ids,omitempty"`
}

type updateIssueInput struct {
	Issue string `path:"issue"`
	Body  updateIssueRequest
}

func (s *Server) updateIssue(ctx context.Context, input *updateIssueInput) (*issueOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	update := service.IssueUpdate{
		ProjectID:   input.Body.ProjectID,
		Title:       input.Body.Title,
		Description: input.Body.Description,
		DueDate:     input.Body.DueDate,
		StartDate:   input.Body.StartDate,
		AssigneeID:  input.Body.AssigneeID,
		ParentID:    input.Body.ParentID,
		LabelIDs:    input.Body.LabelIDs,
	}
	if input.Body.Priority != nil {
		priority := model.Priority(*input.Body.Priority)
		update.Priority = &priority
	}
	if input.Body.Type != nil {
		issueType := model.IssueType(*input.Body.Type)
		update.Type = &issueType
	}
	issue, err := s.service.UpdateIssue(actorID, input.Issue, update)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &issueOutput{Body: issue}, nil
}

type deleteIssueOutput struct {
	Body struct {
		Ok bool `json:"ok"`
	}
}

func (s *Server) deleteIssue(ctx context.Context, input *issuePathInput) (*deleteIssueOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.service.DeleteIssue(actorID, input.Issue); err != nil {
		return nil, toHumaError(err)
	}
	out := &deleteIssueOutput{}
	out.Body.Ok = true
	return out, nil
}

type listProjectIssuesInput struct {
	Project string `path:"project"`
}

type issueListOutput struct {
	Body struct {
		Issues []model.IssueView `json:"issues"`
	}
}

func (s *Server) listProjectIssues(ctx context.Context, input *listProjectIssuesInput) (*issueListOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := s.service.ProjectIssues(actorID, input.Project)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &issueListOutput{}
	out.Body.Issues = issues
	return out, nil
}

type issueHistoryOutput struct {
	Body struct {
		History []model.HistoryView `json:"history"`
	}
}

func (s *Server) getIssueHistory(ctx context.Context, input *issuePathInput) (*issueHistoryOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	history, err := s.service.IssueHistory(actorID, input.Issue)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &issueHistoryOutput{}
	out.Body.History = history
	return out, nil
}
