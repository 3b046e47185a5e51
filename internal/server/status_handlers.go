package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
)

type issueStatusInput struct {
	Issue string `path:"issue"`
}

type statusOutput struct {
	Body model.StatusView
}

func (s *Server) getIssueStatus(ctx context.Context, input *issueStatusInput) (*statusOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	status, err := s.service.StatusOptions(actorID, input.Issue)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &statusOutput{Body: status}, nil
}

type changeStatusRequest struct {
	ColumnID string `json:"project_board_column_id" minLength:"1"`
}

type changeStatusInput struct {
	Issue string `path:"issue"`
	Body  changeStatusRequest
}

func (s *Server) changeIssueStatus(ctx context.Context, input *changeStatusInput) (*statusOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	status, err := s.service.ChangeStatus(actorID, input.Issue, input.Body.ColumnID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &statusOutput{Body: status}, nil
}
