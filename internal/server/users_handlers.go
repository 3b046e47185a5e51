package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
)

type userOutput struct {
	Body model.UserView
}

func (s *Server) currentUser(ctx context.Context, _ *struct{}) (*userOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.service.CurrentUser(actorID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &userOutput{Body: user}, nil
}

type getUserInput struct {
	User string `path:"user"`
}

func (s *Server) getUser(ctx context.Context, input *getUserInput) (*userOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	user, err := s.service.UserByPublicID(input.User)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &userOutput{Body: user}, nil
}

type updateProfileRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Position     *string `json:"position,omitempty"`
	Department   *string `json:"department,omitempty"`
	Organization *string `json:"organization,omitempty"`
	HomePhone    *string `json:"home_phone,omitempty"`
	WorkPhone    *string `json:"work_phone,omitempty"`
	AddressID    *string `json:"address_id,omitempty"`
	TeamID       *string `json:"team_id,omitempty"`
	PictureID    *string `json:"profile_picture_id,omitempty"`
	CoverID      *string `json:"cover_image_id,omitempty"`
}

type updateProfileInput struct {
	Body updateProfileRequest
}

func (s *Server) updateProfile(ctx context.Context, input *updateProfileInput) (*userOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.service.UpdateProfile(actorID, service.ProfileUpdate{
		FirstName:    input.Body.FirstName,
		LastName:     input.Body.LastName,
		Position:     input.Body.Position,
		Department:   input.Body.Department,
		Organization: input.Body.Organization,
		HomePhone:    input.Body.HomePhone,
		WorkPhone:    input.Body.WorkPhone,
		AddressID:    input.Body.AddressID,
		TeamID:       input.Body.TeamID,
		PictureID:    input.Body.PictureID,
		CoverID:      input.Body.CoverID,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &userOutput{Body: user}, nil
}

type createTeamRequest struct {
	Name        string  `json:"name" minLength:"1"`
	Description *string `json:"description,omitempty"`
}

type createTeamInput struct {
	Body createTeamRequest
}

type teamOutput struct {
	Body model.TeamView
}

func (s *Server) createTeam(ctx context.Context, input *createTeamInput) (*teamOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	team, err := s.service.CreateTeam(input.Body.Name, stringOrEmpty(input.Body.Description))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &teamOutput{Body: team}, nil
}

type getTeamInput struct {
	Team string `path:"team"`
}

func (s *Server) getTeam(_ context.Context, input *getTeamInput) (*teamOutput, error) {
	team, err := s.service.GetTeam(input.Team)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &teamOutput{Body: team}, nil
}

type updateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type updateTeamInput struct {
	Team string `path:"team"`
	Body updateTeamRequest
}

func (s *Server) updateTeam(ctx context.Context, input *updateTeamInput) (*teamOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	team, err := s.service.UpdateTeam(input.Team, service.TeamUpdate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &teamOutput{Body: team}, nil
}

type createAddressRequest struct {
	Street          string  `json:"street" minLength:"1"`
	HouseNumber     string  `json:"house_number" minLength:"1"`
	ApartmentNumber *string `json:"apartment_number,omitempty"`
	City            string  `json:"city" minLength:"1"`
	State           string  `json:"state" minLength:"1"`
	ZipCode         string  `json:"zip_code" minLength:"1"`
	Country         string  `json:"country" minLength:"1"`
}

type createAddressInput struct {
	Body createAddressRequest
}

type addressOutput struct {
	Body model.AddressView
}

func (s *Server) createAddress(ctx context.Context, input *createAddressInput) (*addressOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	address, err := s.service.CreateAddress(model.Address{
		Street:          input.Body.Street,
		HouseNumber:     input.Body.HouseNumber,
		ApartmentNumber: stringOrEmpty(input.Body.ApartmentNumber),
		City:            input.Body.City,
		State:           input.Body.State,
		ZipCode:         input.Body.ZipCode,
		Country:         input.Body.Country,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &addressOutput{Body: address}, nil
}

type getAddressInput struct {
	Address string `path:"address"`
}

func (s *Server) getAddress(_ context.Context, input *getAddressInput) (*addressOutput, error) {
	address, err := s.service.GetAddress(input.Address)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &addressOutput{Body: address}, nil
}

type updateAddressRequest struct {
	Street          *string `json:"street,omitempty"`
	HouseNumber     *string `json:"house_number,omitempty"`
	ApartmentNumber *string `json:"apartment_number,omitempty"`
	City            *string `json:"city,omitempty"`
	State           *string `json:"state,omitempty"`
	ZipCode         *string `json:"zip_code,omitempty"`
	Country         *string `json:"country,omitempty"`
}

type updateAddressInput struct {
	Address string `path:"address"`
	Body    updateAddressRequest
}

func (s *Server) updateAddress(ctx context.Context, input *updateAddressInput) (*addressOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	address, err := s.service.UpdateAddress(actorID, input.Address, service.AddressUpdate{
		Street:          input.Body.Street,
		HouseNumber:     input.Body.HouseNumber,
		ApartmentNumber: input.Body.ApartmentNumber,
		City:            input.Body.City,
		State:           input.Body.State,
		ZipCode:         input.Body.ZipCode,
		Country:         input.Body.Country,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &addressOutput{Body: address}, nil
}

type userIssuesOutput struct {
	Body struct {
		Issues []model.IssueView `json:"issues"`
	}
}

func (s *Server) listUserIssues(ctx context.Context, input *getUserInput) (*userIssuesOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	issues, err := s.service.UserIssues(input.User)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &userIssuesOutput{}
	out.Body.Issues = issues
	return out, nil
}

type userHistoryOutput struct {
	Body struct {
		History []model.HistoryView `json:"history"`
	}
}

func (s *Server) listUserHistory(ctx context.Context, input *getUserInput) (*userHistoryOutput, error) {
	if _, err := actor(ctx); err != nil {
		return nil, err
	}
	history, err := s.service.UserHistory(input.User)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &userHistoryOutput{}
	out.Body.History = history
	return out, nil
}
