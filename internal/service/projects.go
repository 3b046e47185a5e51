package service

import (
	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

func (s *Service) CreateProject(actorID int64, name, description string) (model.ProjectView, error) {
	var project model.Project
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		project, err = tx.CreateProject(name, description)
		if err != nil {
			return newError(CodeInternal, "create project failed", err)
		}
		return tx.AddProjectMember(project.ID, actorID)
	})
	if err != nil {
		return model.ProjectView{}, err
	}
	s.logger.Info("project created", "project", project.PublicID)
	s.publish(model.Event{Type: model.EventTypeProjectCreated, Project: project.PublicID})
	return projectView(project), nil
}

func (s *Service) GetProject(actorID int64, projectPublicID string) (model.ProjectView, error) {
	var project model.Project
	err := s.store.View(func(tx *store.Tx) error {
		var err error
		project, err = tx.ProjectByPublicID(projectPublicID)
		if err != nil {
			return storeErr("project not found", err)
		}
		return requireProjectMember(tx, project.ID, actorID)
	})
	if err != nil {
		return model.ProjectView{}, err
	}
	return projectView(project), nil
}

func (s *Service) CreateLabel(actorID int64, projectPublicID, name, color string) (model.LabelView, error) {
	var (
		label   model.Label
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
		label, err = tx.CreateLabel(project.ID, name, color)
		if err != nil {
			return newError(CodeInternal, "create label failed", err)
		}
		return nil
	})
	if err != nil {
		return model.LabelView{}, err
	}
	s.logger.Info("label created", "label", label.PublicID, "project", project.PublicID)
	return model.LabelView{ID: label.PublicID, ProjectID: project.PublicID, Name: label.Name, Color: label.Color}, nil
}

func (s *Service) ProjectLabels(actorID int64, projectPublicID string) ([]model.LabelView, error) {
	views := make([]model.LabelView, 0)
	err := s.store.View(func(tx *store.Tx) error {
		project, err := tx.ProjectByPublicID(projectPublicID)
		if err != nil {
			return storeErr("project not found", err)
		}
		if err := requireProjectMember(tx, project.ID, actorID); err != nil {
			return err
		}
		labels, err := tx.LabelsByProject(project.ID)
		if err != nil {
			return newError(CodeInternal, "list labels failed", err)
		}
		for _, label := range labels {
			views = append(views, model.LabelView{
				ID:        label.PublicID,
				ProjectID: project.PublicID,
				Name:      label.Name,
				Color:     label.Color,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func projectView(p model.Project) model.ProjectView {
	return model.ProjectView{
		ID:          p.PublicID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
