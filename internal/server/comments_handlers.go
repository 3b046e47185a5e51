package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
)

type createCommentRequest struct {
	IssueID  string  `json:"issue_id" minLength:"1"`
	ParentID *string `json:"parent_id,omitempty"`
	Text     string  `json:"text" minLength:"1"`
}

type createCommentInput struct {
	Body createCommentRequest
}

type commentOutput struct {
	Body model.CommentView
}

func (s *Server) createComment(ctx context.Context, input *createCommentInput) (*commentOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	comment, err := s.service.CreateComment(actorID, input.Body.IssueID, stringOrEmpty(input.Body.ParentID), input.Body.Text)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &commentOutput{Body: comment}, nil
}

type commentPathInput struct {
	Comment string `path:"comment"`
}

func (s *Server) getComment(ctx context.Context, input *commentPathInput) (*commentOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	comment, err := s.service.GetComment(actorID, input.Comment)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &commentOutput{Body: comment}, nil
}

type updateCommentRequest struct {
	Text  *string `json:"text,omitempty"`
	Liked *bool   `json:"liked,omitempty"`
}

type updateCommentInput struct {
	Comment string `path:"comment"`
	Body    updateCommentRequest
}

func (s *Server) updateComment(ctx context.Context, input *updateCommentInput) (*commentOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	comment, err := s.service.UpdateComment(actorID, input.Comment, service.CommentUpdate{
		Text:  input.Body.Text,
		Liked: input.Body.Liked,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &commentOutput{Body: comment}, nil
}
