package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/dbx"
	"github.com/akarpovs/contacthub/internal/server/models"
	contactsrepo "github.com/akarpovs/contacthub/internal/server/repositories/contacts"
	usersrepo "github.com/akarpovs/contacthub/internal/server/repositories/users"
)

// In-memory repositories backing the real services under httptest. The
// filter and pagination semantics live in the services tests; here the
// fakes only need to be faithful enough to drive the HTTP surface.

type memUsersRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: make(map[string]*models.User)}
}

func (m *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorDuplicateUser
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	cp := *u
	m.byID[u.ID] = &cp
	return u, nil
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	return u, nil
}

type memContactsRepo struct {
	mu    sync.Mutex
	seq   int
	order []string
	byID  map[string]*models.Contact
}

func newMemContactsRepo() *memContactsRepo {
	return &memContactsRepo{byID: make(map[string]*models.Contact)}
}

func (m *memContactsRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Number == c.Number {
			return nil, common.ErrorDuplicateContact
		}
	}
	m.seq++
	c.ID = fmt.Sprintf("contact-%d", m.seq)
	cp := *c
	m.byID[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return c, nil
}

func (m *memContactsRepo) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memContactsRepo) GetByNumber(ctx context.Context, number string) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Number == number {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memContactsRepo) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	m.byID[c.ID] = &cp
	return c, nil
}

func (m *memContactsRepo) SetQRCode(ctx context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.QRCode = url
	return nil
}

func (m *memContactsRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memContactsRepo) Count(ctx context.Context, filter contactsrepo.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memContactsRepo) List(ctx context.Context, filter contactsrepo.Filter, offset, limit int) ([]*models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Contact
	for i := offset; i < len(m.order) && len(out) < limit; i++ {
		cp := *m.byID[m.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func contactFilterAll() contactsrepo.Filter {
	return contactsrepo.Filter{}
}

type memRepoManager struct {
	u *memUsersRepo
	c *memContactsRepo
}

func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	return m.u
}

func (m *memRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository {
	return m.c
}

func (m *memRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

type noopEncoder struct{}

func (e *noopEncoder) Encode(payload, path string) error { return nil }

type memUploader struct{}

func (u *memUploader) Upload(ctx context.Context, localPath, key string) (string, error) {
	return "https://storage.example.com/contacthub/" + key, nil
}
