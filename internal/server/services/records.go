package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexskv/prodviz/internal/common"
	"github.com/alexskv/prodviz/internal/server/models"
	"github.com/alexskv/prodviz/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
	}
}

// RecordUpdate describes a partial update: nil fields keep their stored
// values.
type RecordUpdate struct {
	Product  *string
	Date     *models.Date
	Quantity *float64
}

// Create assigns a fresh identifier to the record and persists it.
func (s *RecordService) Create(ctx context.Context, product string, date models.Date, quantity float64) (*models.Record, error) {

	if product == "" {
		return nil, fmt.Errorf("%w: product is required", common.ErrValidation)
	}

	record := &models.Record{
		ID:       uuid.NewString(),
		Product:  product,
		Date:     date,
		Quantity: quantity,
	}

	repo := s.repomanager.Records(s.db)

	record, err := repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}

	return record, nil
}

func (s *RecordService) List(ctx context.Context) ([]*models.Record, error) {
	repo := s.repomanager.Records(s.db)

	result, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return result, nil
}

// Update replaces only the fields present in upd. Returns
// common.ErrNotFound when no record with that id exists.
func (s *RecordService) Update(ctx context.Context, id string, upd RecordUpdate) (*models.Record, error) {

	repo := s.repomanager.Records(s.db)

	record, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Product != nil {
		if *upd.Product == "" {
			return nil, fmt.Errorf("%w: product is required", common.ErrValidation)
		}
		record.Product = *upd.Product
	}
	if upd.Date != nil {
		record.Date = *upd.Date
	}
	if upd.Quantity != nil {
		record.Quantity = *upd.Quantity
	}

	record, err = repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *RecordService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Records(s.db)
	return repo.Delete(ctx, id)
}
