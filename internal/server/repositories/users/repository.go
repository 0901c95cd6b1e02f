package users

import (
	"context"

	"github.com/alexskv/prodviz/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateCredentials(ctx context.Context, id, username, passwordHash string) error
	Delete(ctx context.Context, username string) error
}
