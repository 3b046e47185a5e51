package store

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

func (t *Tx) CreateAddress(a model.Address) (model.Address, error) {
	a.PublicID = uuid.NewString()
	res, err := t.tx.Exec(`
INSERT INTO addresses (public_id, street, house_number, apartment_number, city, state, zip_code, country)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.PublicID, a.Street, a.HouseNumber, a.ApartmentNumber, a.City, a.State, a.ZipCode, a.Country)
	if err != nil {
		return model.Address{}, err
	}
	a.ID, err = res.LastInsertId()
	return a, err
}

const addressColumns = `id, public_id, street, house_number, apartment_number, city, state, zip_code, country`

func (t *Tx) addressRow(query string, args ...any) (model.Address, error) {
	var a model.Address
	err := t.tx.QueryRow(query, args...).Scan(
		&a.ID, &a.PublicID, &a.Street, &a.HouseNumber, &a.ApartmentNumber,
		&a.City, &a.State, &a.ZipCode, &a.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Address{}, ErrNotFound
	}
	return a, err
}

func (t *Tx) AddressByPublicID(publicID string) (model.Address, error) {
	return t.addressRow(`SELECT `+addressColumns+` FROM addresses WHERE public_id = ?`, publicID)
}

func (t *Tx) AddressByID(id int64) (model.Address, error) {
	return t.addressRow(`SELECT `+addressColumns+` FROM addresses WHERE id = ?`, id)
}

func (t *Tx) UpdateAddress(a model.Address) error {
	_, err := t.tx.Exec(`
UPDATE addresses
SET street = ?, house_number = ?, apartment_number = ?, city = ?, state = ?, zip_code = ?, country = ?
WHERE id = ?`,
		a.Street, a.HouseNumber, a.ApartmentNumber, a.City, a.State, a.ZipCode, a.Country, a.ID)
	return err
}
