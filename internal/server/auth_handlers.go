package server

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
)

type registerRequest struct {
	Email     string `json:"email" format:"email"`
	Password  string `json:"password" minLength:"8"`
	FirstName string `json:"first_name" minLength:"1"`
	LastName  string `json:"last_name" minLength:"1"`
}

type registerInput struct {
	Body registerRequest
}

type authOutput struct {
	Body struct {
		Token string         `json:"token"`
		User  model.UserView `json:"user"`
	}
}

func (s *Server) registerUser(_ context.Context, input *registerInput) (*authOutput, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("hash password failed")
	}
	credential, user, err := s.service.Register(service.Registration{
		Email:        input.Body.Email,
		PasswordHash: string(hash),
		FirstName:    input.Body.FirstName,
		LastName:     input.Body.LastName,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &authOutput{}
	out.Body.Token = credential.PublicID
	out.Body.User = user
	return out, nil
}

type loginRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Body loginRequest
}

func (s *Server) login(_ context.Context, input *loginInput) (*authOutput, error) {
	credential, err := s.service.CredentialForLogin(input.Body.Email)
	if err != nil {
		if service.CodeOf(err) == service.CodeNotFound {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		return nil, toHumaError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(input.Body.Password)) != nil {
		return nil, huma.Error401Unauthorized("invalid email or password")
	}
	actorID, err := s.service.ResolveActor(credential.PublicID)
	if err != nil {
		return nil, toHumaError(err)
	}
	user, err := s.service.CurrentUser(actorID)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &authOutput{}
	out.Body.Token = credential.PublicID
	out.Body.User = user
	return out, nil
}
