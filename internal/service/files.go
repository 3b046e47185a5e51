package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

type UploadTicket struct {
	File      model.FileView
	UploadURL string
}

// InitUpload records a pending file and hands back a signed URL the client
// uploads against. Nothing is visible until CompleteUpload confirms the
// object exists.
func (s *Service) InitUpload(actorID int64, filename, contentType string) (UploadTicket, error) {
	if s.objects == nil {
		return UploadTicket{}, newError(CodeInternal, "object storage is not configured", nil)
	}
	clean := sanitizeFilename(filename)
	if clean == "" {
		return UploadTicket{}, newError(CodeValidation, "invalid filename", nil)
	}
	key := "uploads/" + uuid.NewString() + "-" + clean

	var file model.File
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		file, err = tx.CreateFile(clean, key, actorID)
		if err != nil {
			return newError(CodeInternal, "create file record failed", err)
		}
		return nil
	})
	if err != nil {
		return UploadTicket{}, err
	}
	url, err := s.objects.PresignUpload(key, contentType)
	if err != nil {
		return UploadTicket{}, newError(CodeInternal, "presign upload failed", err)
	}
	s.logger.Info("upload initialized", "file", file.PublicID)
	return UploadTicket{File: fileView(file), UploadURL: url}, nil
}

// CompleteUpload flips a pending file to uploaded once the object is
// actually in storage. Only the uploader can complete their own file.
func (s *Service) CompleteUpload(actorID int64, filePublicID string) (model.FileView, error) {
	if s.objects == nil {
		return model.FileView{}, newError(CodeInternal, "object storage is not configured", nil)
	}
	var file model.File
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		file, err = tx.FileByPublicID(filePublicID)
		if err != nil {
			return storeErr("file not found", err)
		}
		if file.UploadedByID != actorID {
			return newError(CodeForbidden, "only the uploader can complete an upload", nil)
		}
		if file.Status == model.FileStatusUploaded {
			return nil
		}
		exists, err := s.objects.Exists(file.StorageKey)
		if err != nil {
			return newError(CodeInternal, "object existence check failed", err)
		}
		if !exists {
			return newError(CodeInvalidState, "file has not been uploaded yet", nil)
		}
		if err := tx.UpdateFileStatus(file.ID, model.FileStatusUploaded); err != nil {
			return storeErr("update file status failed", err)
		}
		file.Status = model.FileStatusUploaded
		return nil
	})
	if err != nil {
		return model.FileView{}, err
	}
	s.logger.Info("upload completed", "file", file.PublicID)
	return fileView(file), nil
}

// DownloadURL signs a short-lived read URL for an uploaded file.
func (s *Service) DownloadURL(filePublicID string) (string, error) {
	if s.objects == nil {
		return "", newError(CodeInternal, "object storage is not configured", nil)
	}
	var file model.File
	err := s.store.View(func(tx *store.Tx) error {
		var err error
		file, err = tx.FileByPublicID(filePublicID)
		if err != nil {
			return storeErr("file not found", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if file.Status != model.FileStatusUploaded {
		return "", newError(CodeInvalidState, "file has not been uploaded yet", nil)
	}
	url, err := s.objects.PresignDownload(file.StorageKey)
	if err != nil {
		return "", newError(CodeInternal, "presign download failed", err)
	}
	return url, nil
}

// sanitizeFilename strips path traversal and control characters so the
// name is safe to embed in a storage key. Truncated to 255 characters.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '-'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, name)
	name = strings.TrimLeft(name, ".-")
	name = strings.TrimSpace(name)
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

func fileView(f model.File) model.FileView {
	return model.FileView{ID: f.PublicID, Filename: f.Filename, Status: f.Status}
}
