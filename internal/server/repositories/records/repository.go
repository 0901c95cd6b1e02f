package records

import (
	"context"

	"github.com/alexskv/prodviz/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, record *models.Record) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	List(ctx context.Context) ([]*models.Record, error)
	Update(ctx context.Context, record *models.Record) (*models.Record, error)
	Delete(ctx context.Context, id string) error
}
