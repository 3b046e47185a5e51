package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
)

type createProjectRequest struct {
	Name        string  `json:"name" minLength:"1"`
	Description *string `json:"description,omitempty"`
}

type createProjectInput struct {
	Body createProjectRequest
}

type projectOutput struct {
	Body model.ProjectView
}

func (s *Server) createProject(ctx context.Context, input *createProjectInput) (*projectOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	project, err := s.service.CreateProject(actorID, input.Body.Name, stringOrEmpty(input.Body.Description))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: project}, nil
}

type getProjectInput struct {
	Project string `path:"project"`
}

func (s *Server) getProject(ctx context.Context, input *getProjectInput) (*projectOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	project, err := s.service.GetProject(actorID, input.Project)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &projectOutput{Body: project}, nil
}

type createLabelRequest struct {
	ProjectID string `json:"project_id" minLength:"1"`
	Name      string `json:"name" minLength:"1"`
	Color     string `json:"color" minLength:"1"`
}

type createLabelInput struct {
	Body createLabelRequest
}

type labelOutput struct {
	Body model.LabelView
}

func (s *Server) createLabel(ctx context.Context, input *createLabelInput) (*labelOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	label, err := s.service.CreateLabel(actorID, input.Body.ProjectID, input.Body.Name, input.Body.Color)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &labelOutput{Body: label}, nil
}

type listProjectLabelsInput struct {
	Project string `path:"project"`
}

type listLabelsOutput struct {
	Body struct {
		Labels []model.LabelView `json:"labels"`
	}
}

func (s *Server) listProjectLabels(ctx context.Context, input *listProjectLabelsInput) (*listLabelsOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := s.service.ProjectLabels(actorID, input.Project)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &listLabelsOutput{}
	out.Body.Labels = labels
	return out, nil
}
