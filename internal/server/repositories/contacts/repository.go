// Package contacts provides PostgreSQL-backed persistence for contact
// records, including filtered counting and pagination queries.
package contacts

import (
	"context"

	"github.com/akarpovs/contacthub/internal/server/models"
)

// Filter selects contacts for listing. Field is one of "firstname",
// "lastname" or "number" and applies Query as a case-insensitive substring
// match; any other value disables the text filter. Gender, when non-empty,
// is an exact match.
type Filter struct {
	Field  string
	Query  string
	Gender string
}

type Repository interface {
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	GetByNumber(ctx context.Context, number string) (*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	SetQRCode(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter Filter) (int, error)
	List(ctx context.Context, filter Filter, offset, limit int) ([]*models.Contact, error)
}
