package server

import (
	"context"
)

type placeIssueRequest struct {
	IssueID  string `json:"issue_id" minLength:"1"`
	ColumnID string `json:"project_board_column_id" minLength:"1"`
	Position *int   `json:"position,omitempty"`
}

type placeIssueInput struct {
	Body placeIssueRequest
}

type itemOutput struct {
	Body struct {
		ID       string `json:"id"`
		IssueID  string `json:"issue_id"`
		ColumnID string `json:"project_board_column_id"`
		Position int    `json:"position"`
	}
}

func (s *Server) placeIssue(ctx context.Context, input *placeIssueInput) (*itemOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.service.PlaceIssue(actorID, input.Body.IssueID, input.Body.ColumnID, input.Body.Position)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &itemOutput{}
	out.Body.ID = item.PublicID
	out.Body.IssueID = input.Body.IssueID
	out.Body.ColumnID = input.Body.ColumnID
	out.Body.Position = item.Position
	return out, nil
}

type moveItemRequest struct {
	ColumnID string `json:"project_board_column_id" minLength:"1"`
	Position int    `json:"position"`
}

type moveItemInput struct {
	Item string `path:"item"`
	Body moveItemRequest
}

type moveItemOutput struct {
	Body struct {
		Ok bool `json:"ok"`
	}
}

func (s *Server) moveItem(ctx context.Context, input *moveItemInput) (*moveItemOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.service.MoveItem(actorID, input.Item, input.Body.ColumnID, input.Body.Position); err != nil {
		return nil, toHumaError(err)
	}
	out := &moveItemOutput{}
	out.Body.Ok = true
	return out, nil
}

type removeItemInput struct {
	Item string `path:"item"`
}

type removeItemOutput struct {
	Body struct {
		Ok bool `json:"ok"`
	}
}

func (s *Server) removeItem(ctx context.Context, input *removeItemInput) (*removeItemOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.service.RemoveItem(actorID, input.Item); err != nil {
		return nil, toHumaError(err)
	}
	out := &removeItemOutput{}
	out.Body.Ok = true
	return out, nil
}
