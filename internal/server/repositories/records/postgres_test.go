package records

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexskv/prodviz/internal/common"
	"github.com/alexskv/prodviz/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func testRecord() *models.Record {
	return &models.Record{
		ID:       "r-1",
		Product:  "Widget",
		Date:     models.NewDate(2024, time.January, 15),
		Quantity: 10,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+records\s*\(id,\s*product,\s*date,\s*quantity\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

	rec := testRecord()
	mock.ExpectExec(q).
		WithArgs(rec.ID, rec.Product, rec.Date, rec.Quantity).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "r-1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+records`

	rec := testRecord()
	mock.ExpectExec(q).
		WithArgs(rec.ID, rec.Product, rec.Date, rec.Quantity).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), rec)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*product,\s*date,\s*quantity\s+FROM\s+records\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "product", "date", "quantity"}).
		AddRow("r-1", "Widget", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 10.0)
	mock.ExpectQuery(q).
		WithArgs("r-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "r-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Product != "Widget" || got.Date.String() != "2024-01-15" || got.Quantity != 10 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*product,\s*date,\s*quantity\s+FROM\s+records\s+WHERE`

	mock.ExpectQuery(q).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAllRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*product,\s*date,\s*quantity\s+FROM\s+records\s+ORDER\s+BY\s+date\s*$`

	rows := sqlmock.NewRows([]string{"id", "product", "date", "quantity"}).
		AddRow("r-1", "Widget", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 10.0).
		AddRow("r-2", "Gadget", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 3.5)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].ID != "r-2" || got[1].Quantity != 3.5 {
		t.Fatalf("unexpected record: %+v", got[1])
	}
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*product,\s*date,\s*quantity\s+FROM\s+records\s+ORDER\s+BY\s+date\s*$`

	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"id", "product", "date", "quantity"}))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+records\s+SET\s+product\s*=\s*\$1,\s*date\s*=\s*\$2,\s*quantity\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$4\s+RETURNING\s+id,\s*product,\s*date,\s*quantity\s*$`

	rec := testRecord()
	rec.Quantity = 50

	rows := sqlmock.NewRows([]string{"id", "product", "date", "quantity"}).
		AddRow("r-1", "Widget", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 50.0)
	mock.ExpectQuery(q).
		WithArgs(rec.Product, rec.Date, rec.Quantity, rec.ID).
		WillReturnRows(rows)

	got, err := repo.Update(context.Background(), rec)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Quantity != 50 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+records\s+SET`

	rec := testRecord()
	rec.ID = "missing"
	mock.ExpectQuery(q).
		WithArgs(rec.Product, rec.Date, rec.Quantity, rec.ID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), rec)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+records\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("r-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "r-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+records`

	mock.ExpectExec(q).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}
