// Package services implements the application operations on top of the
// repositories: account management and the contact provisioning workflow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/server/auth"
	"github.com/akarpovs/contacthub/internal/server/config"
	"github.com/akarpovs/contacthub/internal/server/models"
	"github.com/akarpovs/contacthub/internal/server/repositories/repomanager"
)

// UserPatch carries profile fields to change. Empty fields keep their
// current values; a non-empty Password is re-hashed before storing.
type UserPatch struct {
	Name     string
	Email    string
	Password string
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {

	if name == "" || email == "" || password == "" {
		return nil, common.ErrorInvalidInput
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorDuplicateUser
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	// the unique index on email is authoritative under concurrent registration
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUser) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token. An unknown email and
// a wrong password both fail with ErrorInvalidCredentials so callers cannot
// probe for registered accounts.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {

	if email == "" || password == "" {
		return nil, "", common.ErrorInvalidInput
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// IssueToken signs a fresh bearer token for userID.
func (s *UserService) IssueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch UserPatch) (*models.User, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Email != "" {
		user.Email = patch.Email
	}
	if patch.Password != "" {
		hash, err := auth.HashPassword(patch.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.PasswordHash = hash
	}

	user, err = repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateUser) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}
