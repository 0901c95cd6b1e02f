// Package services contains the application services sitting between the
// HTTP transport and the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexskv/prodviz/internal/common"
	"github.com/alexskv/prodviz/internal/dbx"
	"github.com/alexskv/prodviz/internal/server/auth"
	"github.com/alexskv/prodviz/internal/server/config"
	"github.com/alexskv/prodviz/internal/server/models"
	"github.com/alexskv/prodviz/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates a new user with a bcrypt-hashed password. Returns
// common.ErrDuplicateUser when the username is already taken and
// common.ErrValidation when username or password is empty.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, common.ErrDuplicateUser
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInternal
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// authenticate loads the user and checks the password. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies the credentials and issues a session token bound to the
// user, expiring after the configured validity duration.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {

	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// ResetCredentials re-validates the old credentials exactly as Login does
// and then replaces username and password hash in a single transaction.
// Renaming onto a username held by another user fails with
// common.ErrDuplicateUser.
func (s *UserService) ResetCredentials(ctx context.Context, oldUsername, oldPassword, newUsername, newPassword string) error {

	if newUsername == "" || newPassword == "" {
		return fmt.Errorf("%w: new username and password are required", common.ErrValidation)
	}

	user, err := s.authenticate(ctx, oldUsername, oldPassword)
	if err != nil {
		return err
	}

	if newUsername != oldUsername {
		repo := s.repomanager.Users(s.db)
		if _, err := repo.GetByUsername(ctx, newUsername); err == nil {
			return common.ErrDuplicateUser
		} else if !errors.Is(err, common.ErrNotFound) {
			return common.ErrInternal
		}
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := repo.UpdateCredentials(ctx, user.ID, newUsername, hash); err != nil {
			return fmt.Errorf("error updating credentials: %w", err)
		}
		return nil
	})
}

// Remove deletes a user account. There is no HTTP route for this; it is
// reachable only through the admin CLI.
func (s *UserService) Remove(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)
	return repo.Delete(ctx, username)
}
