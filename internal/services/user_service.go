package services

import (
	"regexp"
	"strings"

	"bookstore/internal/apperr"
	"bookstore/internal/models"
	"bookstore/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	nationalIDPattern = regexp.MustCompile(`^[0-9]{7,8}[A-Z]$`)
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern      = regexp.MustCompile(`^[0-9]{7,15}$`)
)

// UserService manages one role partition of the user table. Email and
// national-ID uniqueness is scoped to the role: the same email may exist
// once as ADMIN and once as CUSTOMER.
type UserService struct {
	store  store.Store
	role   models.UserRole
	logger zerolog.Logger
}

func NewUserService(st store.Store, role models.UserRole, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  st,
		role:   role,
		logger: logger,
	}
}

func (s *UserService) Role() models.UserRole { return s.role }

func validateRegistration(req *models.RegisterRequest) error {
	if !nationalIDPattern.MatchString(req.NationalID) {
		return apperr.Validation("national ID must be 7-8 digits followed by an uppercase letter")
	}
	if len(req.Name) < 2 {
		return apperr.Validation("name must be at least 2 characters")
	}
	if len(req.Surname) < 2 {
		return apperr.Validation("surname must be at least 2 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return apperr.Validation("invalid email address")
	}
	if !phonePattern.MatchString(req.Phone) {
		return apperr.Validation("phone must be 7-15 digits")
	}
	if len(req.Password) < 6 {
		return apperr.Validation("password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return apperr.Validation("password confirmation does not match")
	}
	return nil
}

// exists reports whether the lookup found a user; any error other than
// NotFound is returned as-is.
func exists(u *models.User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	return false, err
}

func (s *UserService) Register(req *models.RegisterRequest) (*models.User, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)
	role := string(s.role)

	taken, err := exists(s.store.GetUserByEmailAndRole(email, role))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("a %s with email %s already exists", strings.ToLower(role), email)
	}

	taken, err = exists(s.store.GetUserByNationalIDAndRole(req.NationalID, role))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("a %s with national ID %s already exists", strings.ToLower(role), req.NationalID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, apperr.Transient(err, "failed to hash password")
	}

	user, err := s.store.CreateUser(&models.User{
		NationalID:   req.NationalID,
		Name:         req.Name,
		Surname:      req.Surname,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Str("role", role).Msg("User registered")
	return user, nil
}

// Authenticate verifies email + password within this service's role.
// Failures are deliberately indistinguishable: a wrong email, role or
// password all produce the same invalid-credentials error.
func (s *UserService) Authenticate(req *models.LoginRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.InvalidCredentials()
	}

	user, err := s.store.GetUserByEmailAndRole(strings.ToLower(req.Email), string(s.role))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Str("role", string(s.role)).Msg("Failed authentication attempt")
		return nil, apperr.InvalidCredentials()
	}

	s.logger.Info().Int("user_id", user.ID).Str("email", user.Email).Msg("User authenticated")
	return user, nil
}

func (s *UserService) GetUser(id int) (*models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		return nil, err
	}
	if user.Role != string(s.role) {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]*models.User, error) {
	return s.store.ListUsersByRole(string(s.role))
}

// UpdateUser applies a partial update. Role is immutable; changed email
// or national ID re-checks per-role uniqueness; a new password requires
// a matching confirmation.
func (s *UserService) UpdateUser(id int, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if req.NationalID != "" && req.NationalID != user.NationalID {
		if !nationalIDPattern.MatchString(req.NationalID) {
			return nil, apperr.Validation("national ID must be 7-8 digits followed by an uppercase letter")
		}
		taken, err := exists(s.store.GetUserByNationalIDAndRole(req.NationalID, user.Role))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("a %s with national ID %s already exists", strings.ToLower(user.Role), req.NationalID)
		}
		user.NationalID = req.NationalID
	}
	if req.Name != "" {
		if len(req.Name) < 2 {
			return nil, apperr.Validation("name must be at least 2 characters")
		}
		user.Name = req.Name
	}
	if req.Surname != "" {
		if len(req.Surname) < 2 {
			return nil, apperr.Validation("surname must be at least 2 characters")
		}
		user.Surname = req.Surname
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Phone != "" {
		if !phonePattern.MatchString(req.Phone) {
			return nil, apperr.Validation("phone must be 7-15 digits")
		}
		user.Phone = req.Phone
	}
	if req.Email != "" {
		email := strings.ToLower(req.Email)
		if !emailPattern.MatchString(email) {
			return nil, apperr.Validation("invalid email address")
		}
		if email != user.Email {
			taken, err := exists(s.store.GetUserByEmailAndRole(email, user.Role))
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperr.Conflict("a %s with email %s already exists", strings.ToLower(user.Role), email)
			}
			user.Email = email
		}
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, apperr.Validation("password must be at least 6 characters")
		}
		if req.Password != req.ConfirmPassword {
			return nil, apperr.Validation("password confirmation does not match")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("Error hashing password")
			return nil, apperr.Transient(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(user); err != nil {
		s.logger.Error().Err(err).Int("user_id", id).Msg("Error updating user")
		return nil, err
	}

	s.logger.Info().Int("user_id", id).Str("role", user.Role).Msg("User updated")
	return user, nil
}

func (s *UserService) DeleteUser(id int) error {
	if _, err := s.GetUser(id); err != nil {
		return err
	}
	if err := s.store.DeleteUser(id); err != nil {
		return err
	}
	s.logger.Info().Int("user_id", id).Str("role", string(s.role)).Msg("User deleted")
	return nil
}
