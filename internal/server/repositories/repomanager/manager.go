// Package repomanager wires repositories to database handles so services can
// run them on either a plain connection or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/akarpovs/contacthub/internal/dbx"
	"github.com/akarpovs/contacthub/internal/server/repositories/contacts"
	"github.com/akarpovs/contacthub/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
