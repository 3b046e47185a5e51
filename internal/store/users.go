package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskboard/backend/internal/model"
)

// ErrEmailTaken surfaces the UNIQUE(email) constraint on credentials.
var ErrEmailTaken = errors.New("email already in use")

func (t *Tx) CreateCredential(email, passwordHash string) (model.Credential, error) {
	c := model.Credential{
		PublicID:     uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
	}
	res, err := t.tx.Exec(`
INSERT INTO user_credentials (public_id, email, password_hash)
VALUES (?, ?, ?)`, c.PublicID, c.Email, c.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: user_credentials.email") {
			return model.Credential{}, ErrEmailTaken
		}
		return model.Credential{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

func (t *Tx) credentialRow(query string, args ...any) (model.Credential, error) {
	var c model.Credential
	err := t.tx.QueryRow(query, args...).Scan(&c.ID, &c.PublicID, &c.Email, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, ErrNotFound
	}
	return c, err
}

const credentialColumns = `id, public_id, email, password_hash`

func (t *Tx) CredentialByEmail(email string) (model.Credential, error) {
	return t.credentialRow(`SELECT `+credentialColumns+` FROM user_credentials WHERE email = ?`, email)
}

func (t *Tx) CredentialByPublicID(publicID string) (model.Credential, error) {
	return t.credentialRow(`SELECT `+credentialColumns+` FROM user_credentials WHERE public_id = ?`, publicID)
}

func (t *Tx) CredentialByID(id int64) (model.Credential, error) {
	return t.credentialRow(`SELECT `+credentialColumns+` FROM user_credentials WHERE id = ?`, id)
}

func (t *Tx) CreateProfile(p model.Profile) (model.Profile, error) {
	p.PublicID = uuid.NewString()
	p.LastActive = time.Now().UTC()
	res, err := t.tx.Exec(`
INSERT INTO user_profiles (
  public_id, credential_id, first_name, last_name, position, department,
  organization, home_phone, work_phone, address_id, team_id, picture_id, cover_id, last_active
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PublicID, p.CredentialID, p.FirstName, p.LastName, p.Position, p.Department,
		p.Organization, p.HomePhone, p.WorkPhone, nullIntArg(p.AddressID), nullIntArg(p.TeamID),
		nullIntArg(p.PictureID), nullIntArg(p.CoverID), formatTime(p.LastActive))
	if err != nil {
		return model.Profile{}, err
	}
	p.ID, err = res.LastInsertId()
	return p, err
}

const profileColumns = `id, public_id, credential_id, first_name, last_name, position, department,
  organization, home_phone, work_phone, address_id, team_id, picture_id, cover_id, last_active`

func scanProfile(scan func(...any) error) (model.Profile, error) {
	var (
		p          model.Profile
		lastActive string
	)
	err := scan(&p.ID, &p.PublicID, &p.CredentialID, &p.FirstName, &p.LastName, &p.Position,
		&p.Department, &p.Organization, &p.HomePhone, &p.WorkPhone, &p.AddressID, &p.TeamID,
		&p.PictureID, &p.CoverID, &lastActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, ErrNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}
	if p.LastActive, err = parseTime(lastActive); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

func (t *Tx) profileRow(query string, args ...any) (model.Profile, error) {
	return scanProfile(t.tx.QueryRow(query, args...).Scan)
}

func (t *Tx) ProfileByID(id int64) (model.Profile, error) {
	return t.profileRow(`SELECT `+profileColumns+` FROM user_profiles WHERE id = ?`, id)
}

func (t *Tx) ProfileByPublicID(publicID string) (model.Profile, error) {
	return t.profileRow(`SELECT `+profileColumns+` FROM user_profiles WHERE public_id = ?`, publicID)
}

func (t *Tx) ProfileByCredentialID(credentialID int64) (model.Profile, error) {
	return t.profileRow(`SELECT `+profileColumns+` FROM user_profiles WHERE credential_id = ?`, credentialID)
}

func (t *Tx) UpdateProfile(p model.Profile) error {
	res, err := t.tx.Exec(`
UPDATE user_profiles SET
  first_name = ?, last_name = ?, position = ?, department = ?, organization = ?,
  home_phone = ?, work_phone = ?, address_id = ?, team_id = ?, picture_id = ?,
  cover_id = ?, last_active = ?
WHERE id = ?`,
		p.FirstName, p.LastName, p.Position, p.Department, p.Organization,
		p.HomePhone, p.WorkPhone, nullIntArg(p.AddressID), nullIntArg(p.TeamID),
		nullIntArg(p.PictureID), nullIntArg(p.CoverID), formatTime(time.Now().UTC()), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
