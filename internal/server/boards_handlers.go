package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/service"
)

type createBoardRequest struct {
	ProjectID   string  `json:"project_id" minLength:"1"`
	Name        string  `json:"name" minLength:"1"`
	Description *string `json:"description,omitempty"`
}

type createBoardInput struct {
	Body createBoardRequest
}

type boardOutput struct {
	Body model.BoardView
}

func (s *Server) createBoard(ctx context.Context, input *createBoardInput) (*boardOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	board, err := s.service.CreateBoard(actorID, input.Body.ProjectID, input.Body.Name, stringOrEmpty(input.Body.Description))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

type getBoardInput struct {
	Board string `path:"board"`
}

func (s *Server) getBoard(ctx context.Context, input *getBoardInput) (*boardOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	board, err := s.service.GetBoard(actorID, input.Board)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

type reorderItemRequest struct {
	ID       string `json:"id" minLength:"1"`
	Position int    `json:"position"`
}

type reorderColumnRequest struct {
	ID       string               `json:"id" minLength:"1"`
	Name     *string              `json:"name,omitempty"`
	Position int                  `json:"position"`
	Items    []reorderItemRequest `json:"items,omitempty"`
}

type reorderBoardRequest struct {
	Columns []reorderColumnRequest `json:"columns"`
}

type reorderBoardInput struct {
	Board string `path:"board"`
	Body  reorderBoardRequest
}

func (s *Server) reorderBoard(ctx context.Context, input *reorderBoardInput) (*boardOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	columns := make([]service.ColumnReorder, 0, len(input.Body.Columns))
	for _, col := range input.Body.Columns {
		reorder := service.ColumnReorder{
			ColumnID: col.ID,
			Name:     stringOrEmpty(col.Name),
			Position: col.Position,
		}
		for _, item := range col.Items {
			reorder.Items = append(reorder.Items, service.ItemReorder{ItemID: item.ID, Position: item.Position})
		}
		columns = append(columns, reorder)
	}
	board, err := s.service.BulkReorder(actorID, input.Board, columns)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &boardOutput{Body: board}, nil
}

type createColumnRequest struct {
	BoardID     string  `json:"project_board_id" minLength:"1"`
	Name        string  `json:"name" minLength:"1"`
	Description *string `json:"description,omitempty"`
	Position    int     `json:"position"`
}

type createColumnInput struct {
	Body createColumnRequest
}

type columnOutput struct {
	Body model.ColumnView
}

func (s *Server) createColumn(ctx context.Context, input *createColumnInput) (*columnOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	column, err := s.service.CreateColumn(actorID, input.Body.BoardID, input.Body.Name, stringOrEmpty(input.Body.Description), input.Body.Position)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &columnOutput{Body: column}, nil
}
