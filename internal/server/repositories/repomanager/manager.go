package repomanager

import (
	"context"
	"database/sql"

	"github.com/alexskv/prodviz/internal/dbx"
	"github.com/alexskv/prodviz/internal/server/repositories/records"
	"github.com/alexskv/prodviz/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Records(db dbx.DBTX) records.Repository
}
