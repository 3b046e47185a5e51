package server

import (
	"context"

	"github.com/taskboard/backend/internal/model"
)

type initFileUploadRequest struct {
	Filename    string  `json:"filename" minLength:"1"`
	ContentType *string `json:"content_type,omitempty"`
}

type initFileUploadInput struct {
	Body initFileUploadRequest
}

type initFileUploadOutput struct {
	Body struct {
		File      model.FileView `json:"file"`
		UploadURL string         `json:"upload_url"`
	}
}

func (s *Server) initFileUpload(ctx context.Context, input *initFileUploadInput) (*initFileUploadOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	ticket, err := s.service.InitUpload(actorID, input.Body.Filename, stringOrEmpty(input.Body.ContentType))
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &initFileUploadOutput{}
	out.Body.File = ticket.File
	out.Body.UploadURL = ticket.UploadURL
	return out, nil
}

type filePathInput struct {
	File string `path:"file"`
}

type fileOutput struct {
	Body model.FileView
}

func (s *Server) completeFileUpload(ctx context.Context, input *filePathInput) (*fileOutput, error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	file, err := s.service.CompleteUpload(actorID, input.File)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &fileOutput{Body: file}, nil
}

type getFileOutput struct {
	Body struct {
		DownloadURL string `json:"download_url"`
	}
}

func (s *Server) getFile(_ context.Context, input *filePathInput) (*getFileOutput, error) {
	url, err := s.service.DownloadURL(input.File)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &getFileOutput{}
	out.Body.DownloadURL = url
	return out, nil
}
