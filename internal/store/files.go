package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateFile(filename, storageKey string, uploadedByID int64) (model.File, error) {
	f := model.File{
		PublicID:     uuid.NewString(),
		Filename:     filename,
		StorageKey:   storageKey,
		Status:       model.FileStatusPending,
		UploadedByID: uploadedByID,
	}
	res, err := t.tx.Exec(`
INSERT INTO files (public_id, filename, storage_key, status, uploaded_by)
VALUES (?, ?, ?, ?, ?)`,
		f.PublicID, f.Filename, f.StorageKey, string(f.Status), f.UploadedByID)
	if err != nil {
		return model.File{}, err
	}
	f.ID, err = res.LastInsertId()
	return f, err
}

func (t *Tx) FileByPublicID(publicID string) (model.File, error) {
	var (
		f      model.File
		status string
	)
	err := t.tx.QueryRow(`
SELECT id, public_id, filename, storage_key, status, uploaded_by
FROM files WHERE public_id = ?`, publicID).Scan(
		&f.ID, &f.PublicID, &f.Filename, &f.StorageKey, &status, &f.UploadedByID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.File{}, ErrNotFound
	}
	f.Status = model.FileStatus(status)
	return f, err
}

func (t *Tx) FileByID(id int64) (model.File, error) {
	var (
		f      model.File
		status string
	)
	err := t.tx.QueryRow(`
SELECT id, public_id, filename, storage_key, status, uploaded_by
FROM files WHERE id = ?`, id).Scan(
		&f.ID, &f.PublicID, &f.Filename, &f.StorageKey, &status, &f.UploadedByID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.File{}, ErrNotFound
	}
	f.Status = model.FileStatus(status)
	return f, err
}

func (t *Tx) UpdateFileStatus(id int64, status model.FileStatus) error {
	res, err := t.tx.Exec(`UPDATE files SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
