package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/dbx"
	"github.com/akarpovs/contacthub/internal/server/models"
	contactsrepo "github.com/akarpovs/contacthub/internal/server/repositories/contacts"
	usersrepo "github.com/akarpovs/contacthub/internal/server/repositories/users"
)

// --- in-memory repositories ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*models.User
	getErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorDuplicateUser
		}
	}
	f.seq++
	u.ID = "u-" + strings.Repeat("0", 2) + string(rune('0'+f.seq))
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	for id, existing := range f.byID {
		if id != u.ID && existing.Email == u.Email {
			return nil, common.ErrorDuplicateUser
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

type fakeContactsRepo struct {
	mu    sync.Mutex
	seq   int
	items []*models.Contact

	setQRCodeErr error
}

func newFakeContactsRepo() *fakeContactsRepo {
	return &fakeContactsRepo{}
}

func (f *fakeContactsRepo) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Number == c.Number {
			return nil, common.ErrorDuplicateContact
		}
	}
	f.seq++
	c.ID = "c-" + string(rune('0'+f.seq))
	cp := *c
	f.items = append(f.items, &cp)
	return c, nil
}

func (f *fakeContactsRepo) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeContactsRepo) GetByNumber(ctx context.Context, number string) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.Number == number {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeContactsRepo) Update(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID == c.ID {
			cp := *c
			cp.CreatedAt = existing.CreatedAt
			f.items[i] = &cp
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeContactsRepo) SetQRCode(ctx context.Context, id, url string) error {
	if f.setQRCodeErr != nil {
		return f.setQRCodeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			c.QRCode = url
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeContactsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeContactsRepo) matches(c *models.Contact, filter contactsrepo.Filter) bool {
	if filter.Gender != "" && c.Gender != filter.Gender {
		return false
	}
	if filter.Query == "" {
		return true
	}
	var v string
	switch strings.ToLower(filter.Field) {
	case "firstname":
		v = c.FirstName
	case "lastname":
		v = c.LastName
	case "number":
		v = c.Number
	default:
		return true
	}
	return strings.Contains(strings.ToLower(v), strings.ToLower(filter.Query))
}

func (f *fakeContactsRepo) Count(ctx context.Context, filter contactsrepo.Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.items {
		if f.matches(c, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeContactsRepo) List(ctx context.Context, filter contactsrepo.Filter, offset, limit int) ([]*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.Contact
	for _, c := range f.items {
		if f.matches(c, filter) {
			cp := *c
			matched = append(matched, &cp)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// --- repomanager over the fakes ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeContactsRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Contacts(db dbx.DBTX) contactsrepo.Repository { return m.c }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// --- provisioning collaborators ---

type fakeEncoder struct {
	payloads []string
	paths    []string
	err      error
}

func (f *fakeEncoder) Encode(payload, path string) error {
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	f.paths = append(f.paths, path)
	return nil
}

type fakeUploader struct {
	localPaths []string
	keys       []string
	err        error
}

func (f *fakeUploader) Upload(ctx context.Context, localPath, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.localPaths = append(f.localPaths, localPath)
	f.keys = append(f.keys, key)
	return "https://storage.example.com/contacthub/" + key, nil
}

var errInfra = errors.New("infra down")
