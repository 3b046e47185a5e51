package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskboard/backend/internal/model"
	"github.com/taskboard/backend/internal/store"
)

// ErrEmailTaken is re-exported so the auth boundary can map it without
// depending on the store package.
var ErrEmailTaken = store.ErrEmailTaken

type Registration struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// Register creates the credential, profile, and the default workspace:
// a project named after the user with one board and three columns. One
// transaction; a duplicate email aborts everything.
func (s *Service) Register(in Registration) (model.Credential, model.UserView, error) {
	var (
		credential model.Credential
		view       model.UserView
	)
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		credential, err = tx.CreateCredential(in.Email, in.PasswordHash)
		if errors.Is(err, store.ErrEmailTaken) {
			return newError(CodeConflict, "email already in use", err)
		}
		if err != nil {
			return newError(CodeInternal, "create credential failed", err)
		}
		profile, err := tx.CreateProfile(model.Profile{
			CredentialID: credential.ID,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
		})
		if err != nil {
			return newError(CodeInternal, "create profile failed", err)
		}
		project, err := tx.CreateProject(
			fmt.Sprintf("%s's Project", in.FirstName),
			fmt.Sprintf("Default project for %s", in.FirstName))
		if err != nil {
			return newError(CodeInternal, "create default project failed", err)
		}
		if err := tx.AddProjectMember(project.ID, profile.ID); err != nil {
			return newError(CodeInternal, "add project member failed", err)
		}
		board, err := tx.CreateBoard(project.ID, "Default Board", "This is your default project board")
		if err != nil {
			return newError(CodeInternal, "create default board failed", err)
		}
		for i, name := range []string{"To Do", "In Progress", "Done"} {
			if _, err := tx.CreateColumn(board.ID, name, "", i+1); err != nil {
				return newError(CodeInternal, "create default column failed", err)
			}
		}
		view, err = assembleUser(tx, credential, profile)
		return err
	})
	if err != nil {
		return model.Credential{}, model.UserView{}, err
	}
	s.logger.Info("user registered", "user", view.ID)
	return credential, view, nil
}

// CredentialForLogin looks up a credential by email. Password comparison
// happens at the auth boundary; the core never sees plaintext.
func (s *Service) CredentialForLogin(email string) (model.Credential, error) {
	var credential model.Credential
	err := s.store.View(func(tx *store.Tx) error {
		var err error
		credential, err = tx.CredentialByEmail(email)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return model.Credential{}, newError(CodeNotFound, "user does not exist", err)
	}
	if err != nil {
		return model.Credential{}, newError(CodeInternal, "credential lookup failed", err)
	}
	return credential, nil
}

// ResolveActor maps a credential public id (from upstream auth middleware)
// to the internal profile id used for authorization.
func (s *Service) ResolveActor(credentialPublicID string) (int64, error) {
	var actorID int64
	err := s.store.View(func(tx *store.Tx) error {
		credential, err := tx.CredentialByPublicID(credentialPublicID)
		if err != nil {
			return storeErr("user not found", err)
		}
		profile, err := tx.ProfileByCredentialID(credential.ID)
		if err != nil {
			return storeErr("user profile not found", err)
		}
		actorID = profile.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return actorID, nil
}

func (s *Service) CurrentUser(actorID int64) (model.UserView, error) {
	var view model.UserView
	err := s.store.View(func(tx *store.Tx) error {
		profile, err := tx.ProfileByID(actorID)
		if err != nil {
			return storeErr("user not found", err)
		}
		credential, err := tx.CredentialByID(profile.CredentialID)
		if err != nil {
			return newError(CodeInternal, "credential lookup failed", err)
		}
		view, err = assembleUser(tx, credential, profile)
		return err
	})
	if err != nil {
		return model.UserView{}, err
	}
	return view, nil
}

func (s *Service) UserByPublicID(profilePublicID string) (model.UserView, error) {
	var view model.UserView
	err := s.store.View(func(tx *store.Tx) error {
		profile, err := tx.ProfileByPublicID(profilePublicID)
		if err != nil {
			return storeErr("user not found", err)
		}
		credential, err := tx.CredentialByID(profile.CredentialID)
		if err != nil {
			return newError(CodeInternal, "credential lookup failed", err)
		}
		view, err = assembleUser(tx, credential, profile)
		return err
	})
	if err != nil {
		return model.UserView{}, err
	}
	return view, nil
}

type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	Position     *string
	Department   *string
	Organization *string
	HomePhone    *string
	WorkPhone    *string
	AddressID    *string // empty string clears
	TeamID       *string // empty string clears
	PictureID    *string
	CoverID      *string
}

func (s *Service) UpdateProfile(actorID int64, in ProfileUpdate) (model.UserView, error) {
	var view model.UserView
	err := s.store.Update(func(tx *store.Tx) error {
		profile, err := tx.ProfileByID(actorID)
		if err != nil {
			return storeErr("user not found", err)
		}
		if in.FirstName != nil {
			profile.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			profile.LastName = *in.LastName
		}
		if in.Position != nil {
			profile.Position = *in.Position
		}
		if in.Department != nil {
			profile.Department = *in.Department
		}
		if in.Organization != nil {
			profile.Organization = *in.Organization
		}
		if in.HomePhone != nil {
			profile.HomePhone = *in.HomePhone
		}
		if in.WorkPhone != nil {
			profile.WorkPhone = *in.WorkPhone
		}
		if in.AddressID != nil {
			profile.AddressID, err = resolveNullable(*in.AddressID, func(id string) (int64, error) {
				a, err := tx.AddressByPublicID(id)
				return a.ID, err
			})
			if err != nil {
				return newError(CodeValidation, "address not found", err)
			}
		}
		if in.TeamID != nil {
			profile.TeamID, err = resolveNullable(*in.TeamID, func(id string) (int64, error) {
				team, err := tx.TeamByPublicID(id)
				return team.ID, err
			})
			if err != nil {
				return newError(CodeValidation, "team not found", err)
			}
		}
		if in.PictureID != nil {
			profile.PictureID, err = resolveNullable(*in.PictureID, func(id string) (int64, error) {
				f, err := tx.FileByPublicID(id)
				return f.ID, err
			})
			if err != nil {
				return newError(CodeValidation, "file not found", err)
			}
		}
		if in.CoverID != nil {
			profile.CoverID, err = resolveNullable(*in.CoverID, func(id string) (int64, error) {
				f, err := tx.FileByPublicID(id)
				return f.ID, err
			})
			if err != nil {
				return newError(CodeValidation, "file not found", err)
			}
		}
		if err := tx.UpdateProfile(profile); err != nil {
			return storeErr("update profile failed", err)
		}
		credential, err := tx.CredentialByID(profile.CredentialID)
		if err != nil {
			return newError(CodeInternal, "credential lookup failed", err)
		}
		profile, err = tx.ProfileByID(profile.ID)
		if err != nil {
			return newError(CodeInternal, "reload profile failed", err)
		}
		view, err = assembleUser(tx, credential, profile)
		return err
	})
	if err != nil {
		return model.UserView{}, err
	}
	s.logger.Info("profile updated", "user", view.ID)
	return view, nil
}

func (s *Service) CreateTeam(name, description string) (model.TeamView, error) {
	var team model.Team
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		team, err = tx.CreateTeam(name, description)
		if err != nil {
			return newError(CodeInternal, "create team failed", err)
		}
		return nil
	})
	if err != nil {
		return model.TeamView{}, err
	}
	s.logger.Info("team created", "team", team.PublicID)
	return model.TeamView{ID: team.PublicID, Name: team.Name, Description: team.Description, MemberIDs: []string{}}, nil
}

func (s *Service) GetTeam(teamPublicID string) (model.TeamView, error) {
	var view model.TeamView
	err := s.store.View(func(tx *store.Tx) error {
		team, err := tx.TeamByPublicID(teamPublicID)
		if err != nil {
			return storeErr("team not found", err)
		}
		members, err := tx.TeamMemberPublicIDs(team.ID)
		if err != nil {
			return newError(CodeInternal, "list team members failed", err)
		}
		view = model.TeamView{ID: team.PublicID, Name: team.Name, Description: team.Description, MemberIDs: members}
		return nil
	})
	if err != nil {
		return model.TeamView{}, err
	}
	return view, nil
}

type TeamUpdate struct {
	Name        *string
	Description *string
}

func (s *Service) UpdateTeam(teamPublicID string, in TeamUpdate) (model.TeamView, error) {
	var view model.TeamView
	err := s.store.Update(func(tx *store.Tx) error {
		team, err := tx.TeamByPublicID(teamPublicID)
		if err != nil {
			return storeErr("team not found", err)
		}
		if in.Name != nil {
			team.Name = *in.Name
		}
		if in.Description != nil {
			team.Description = *in.Description
		}
		if err := tx.UpdateTeam(team.ID, team.Name, team.Description); err != nil {
			return newError(CodeInternal, "update team failed", err)
		}
		members, err := tx.TeamMemberPublicIDs(team.ID)
		if err != nil {
			return newError(CodeInternal, "list team members failed", err)
		}
		view = model.TeamView{ID: team.PublicID, Name: team.Name, Description: team.Description, MemberIDs: members}
		return nil
	})
	if err != nil {
		return model.TeamView{}, err
	}
	s.logger.Info("team updated", "team", teamPublicID)
	return view, nil
}

func (s *Service) CreateAddress(in model.Address) (model.AddressView, error) {
	var address model.Address
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		address, err = tx.CreateAddress(in)
		if err != nil {
			return newError(CodeInternal, "create address failed", err)
		}
		return nil
	})
	if err != nil {
		return model.AddressView{}, err
	}
	return addressView(address), nil
}

func (s *Service) GetAddress(addressPublicID string) (model.AddressView, error) {
	var address model.Address
	err := s.store.View(func(tx *store.Tx) error {
		var err error
		address, err = tx.AddressByPublicID(addressPublicID)
		if err != nil {
			return storeErr("address not found", err)
		}
		return nil
	})
	if err != nil {
		return model.AddressView{}, err
	}
	return addressView(address), nil
}

type AddressUpdate struct {
	Street          *string
	HouseNumber     *string
	ApartmentNumber *string
	City            *string
	State           *string
	ZipCode         *string
	Country         *string
}

// UpdateAddress edits an address. Only a user whose profile links the
// address may change it.
func (s *Service) UpdateAddress(actorID int64, addressPublicID string, in AddressUpdate) (model.AddressView, error) {
	var address model.Address
	err := s.store.Update(func(tx *store.Tx) error {
		var err error
		address, err = tx.AddressByPublicID(addressPublicID)
		if err != nil {
			return storeErr("address not found", err)
		}
		profile, err := tx.ProfileByID(actorID)
		if err != nil {
			return storeErr("user not found", err)
		}
		if !profile.AddressID.Valid || profile.AddressID.Int64 != address.ID {
			return newError(CodeForbidden, "address is not linked to this user", nil)
		}
		if in.Street != nil {
			address.Street = *in.Street
		}
		if in.HouseNumber != nil {
			address.HouseNumber = *in.HouseNumber
		}
		if in.ApartmentNumber != nil {
			address.ApartmentNumber = *in.ApartmentNumber
		}
		if in.City != nil {
			address.City = *in.City
		}
		if in.State != nil {
			address.State = *in.State
		}
		if in.ZipCode != nil {
			address.ZipCode = *in.ZipCode
		}
		if in.Country != nil {
			address.Country = *in.Country
		}
		if err := tx.UpdateAddress(address); err != nil {
			return newError(CodeInternal, "update address failed", err)
		}
		return nil
	})
	if err != nil {
		return model.AddressView{}, err
	}
	s.logger.Info("address updated", "address", addressPublicID)
	return addressView(address), nil
}

func resolveNullable(publicID string, lookup func(string) (int64, error)) (sql.NullInt64, error) {
	if publicID == "" {
		return sql.NullInt64{}, nil
	}
	id, err := lookup(publicID)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: id, Valid: true}, nil
}

func assembleUser(tx *store.Tx, credential model.Credential, profile model.Profile) (model.UserView, error) {
	view := model.UserView{
		ID:           profile.PublicID,
		Email:        credential.Email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Position:     profile.Position,
		Department:   profile.Department,
		Organization: profile.Organization,
		HomePhone:    profile.HomePhone,
		WorkPhone:    profile.WorkPhone,
		LastActive:   profile.LastActive,
	}
	if profile.AddressID.Valid {
		address, err := tx.AddressByID(profile.AddressID.Int64)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.UserView{}, newError(CodeInternal, "load address failed", err)
		}
		if err == nil {
			view.AddressID = address.PublicID
		}
	}
	if profile.TeamID.Valid {
		team, err := tx.TeamByID(profile.TeamID.Int64)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return model.UserView{}, newError(CodeInternal, "load team failed", err)
		}
		if err == nil {
			view.TeamID = team.PublicID
		}
	}
	if profile.PictureID.Valid {
		if id, err := filePublicID(tx, profile.PictureID.Int64); err != nil {
			return model.UserView{}, err
		} else {
			view.PictureID = id
		}
	}
	if profile.CoverID.Valid {
		if id, err := filePublicID(tx, profile.CoverID.Int64); err != nil {
			return model.UserView{}, err
		} else {
			view.CoverID = id
		}
	}
	return view, nil
}

func filePublicID(tx *store.Tx, id int64) (string, error) {
	f, err := tx.FileByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", newError(CodeInternal, "load file failed", err)
	}
	return f.PublicID, nil
}

func addressView(a model.Address) model.AddressView {
	return model.AddressView{
		ID:              a.PublicID,
		Street:          a.Street,
		HouseNumber:     a.HouseNumber,
		ApartmentNumber: a.ApartmentNumber,
		City:            a.City,
		State:           a.State,
		ZipCode:         a.ZipCode,
		Country:         a.Country,
	}
}
