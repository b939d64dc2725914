package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/dbx"
	"github.com/akarpovs/contacthub/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const contactColumns = "id, profile, firstname, lastname, number, gender, address, qrcode, created_by, created_at"

// PostgresRepository implements contact storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func scanContact(row *sql.Row) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.Profile, &c.FirstName, &c.LastName, &c.Number,
		&c.Gender, &c.Address, &c.QRCode, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {

	query :=
		`INSERT INTO contacts (profile, firstname, lastname, number, gender, address, created_by)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		contact.Profile, contact.FirstName, contact.LastName, contact.Number,
		contact.Gender, contact.Address, contact.CreatedBy).
		Scan(&contact.ID, &contact.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorDuplicateContact
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return contact, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return scanContact(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByNumber(ctx context.Context, number string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE number = $1`
	return scanContact(r.db.QueryRowContext(ctx, query, number))
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query :=
		`UPDATE contacts
		 SET profile = $2, firstname = $3, lastname = $4, number = $5, gender = $6, address = $7
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, contact.ID,
		contact.Profile, contact.FirstName, contact.LastName, contact.Number,
		contact.Gender, contact.Address)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorDuplicateContact
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}

	return contact, nil
}

// SetQRCode persists the durable public URL produced by provisioning.
// This is the second write of the provisioning workflow.
func (r *PostgresRepository) SetQRCode(ctx context.Context, id, url string) error {
	query := `UPDATE contacts SET qrcode = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, url)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contacts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// whereClause builds the WHERE fragment and args for filter. Only the three
// known text fields are filterable; anything else disables the text match.
func whereClause(filter Filter) (string, []any) {
	var conds []string
	var args []any

	field := strings.ToLower(filter.Field)
	if filter.Query != "" && (field == "firstname" || field == "lastname" || field == "number") {
		args = append(args, filter.Query)
		conds = append(conds, fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", field, len(args)))
	}

	if filter.Gender != "" {
		args = append(args, filter.Gender)
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := whereClause(filter)

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM contacts"+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter, offset, limit int) ([]*models.Contact, error) {
	where, args := whereClause(filter)

	query := fmt.Sprintf("SELECT %s FROM contacts%s ORDER BY created_at, id OFFSET $%d LIMIT $%d",
		contactColumns, where, len(args)+1, len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select contacts: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Profile, &c.FirstName, &c.LastName, &c.Number,
			&c.Gender, &c.Address, &c.QRCode, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
