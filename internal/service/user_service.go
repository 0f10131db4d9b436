package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"tucancha/internal/auth"
	"tucancha/internal/db"
	"tucancha/internal/entities"
	apierrors "tucancha/internal/errors"
	"tucancha/internal/repository"
)

// Default administrator seeded on first boot.
const (
	DefaultAdminEmail    = "Admin@admin.cl"
	defaultAdminPassword = "Admin123"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) ListUsers(ctx context.Context) ([]db.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*db.User, error) {
	user, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("user not found with id: %d", id))
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.NotFound(fmt.Sprintf("user not found with email: %s", email))
		}
		return nil, err
	}
	return user, nil
}

// RegisterUser creates a regular account. The role in the request is
// ignored; admins are only created through seeding.
func (s *UserService) RegisterUser(ctx context.Context, req *entities.UserRequest) (*db.User, error) {
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		return nil, apierrors.Validation("email, password and first_name are required")
	}

	exists, err := s.Repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierrors.Conflict(fmt.Sprintf("a user already exists with email: %s", req.Email))
	}

	user := &db.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Active:    true,
		Role:      db.RoleUser,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req *entities.UserRequest) (*db.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email == "" || req.FirstName == "" {
		return nil, apierrors.Validation("email and first_name are required")
	}

	if req.Email != user.Email {
		exists, err := s.Repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apierrors.Conflict(fmt.Sprintf("a user already exists with email: %s", req.Email))
		}
	}

	user.Email = req.Email
	if req.Password != "" {
		user.Password = req.Password
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.Repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apierrors.NotFound(fmt.Sprintf("user not found with id: %d", id))
		}
		return err
	}
	return nil
}

// DeleteUser removes the account. The seeded administrator cannot be
// deleted.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Email == DefaultAdminEmail {
		return apierrors.Validation("the default administrator cannot be deleted")
	}
	return s.Repo.Delete(ctx, id)
}

// Login authenticates by email and password and returns a signed access
// token. Missing fields are a validation error; a wrong email or password is
// unauthorized.
func (s *UserService) Login(ctx context.Context, req *entities.LoginRequest) (*entities.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apierrors.Validation("email and password are required")
	}

	user, err := s.Repo.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apierrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}
	if user.Password != req.Password {
		return nil, apierrors.Unauthorized("invalid email or password")
	}

	if err := s.Repo.UpdateLastAccess(ctx, user.ID); err != nil {
		log.Printf("Could not update last access for user %d: %v", user.ID, err)
	}

	token, err := auth.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error creating access token: %w", err)
	}
	return &entities.LoginResponse{Token: token, User: user}, nil
}

// EnsureDefaultAdmin seeds the administrator account on first boot.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context) error {
	exists, err := s.Repo.ExistsByEmail(ctx, DefaultAdminEmail)
	if err != nil {
		return fmt.Errorf("error checking default admin: %w", err)
	}
	if exists {
		return nil
	}

	admin := &db.User{
		Email:     DefaultAdminEmail,
		Password:  defaultAdminPassword,
		FirstName: "Administrador",
		LastName:  "Sistema",
		Active:    true,
		Role:      db.RoleAdmin,
	}
	if err := s.Repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("error seeding default admin: %w", err)
	}
	log.Printf("Seeded default admin account %s", DefaultAdminEmail)
	return nil
}
