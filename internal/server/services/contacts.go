package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akarpovs/contacthub/internal/common"
	"github.com/akarpovs/contacthub/internal/logging"
	"github.com/akarpovs/contacthub/internal/server/config"
	"github.com/akarpovs/contacthub/internal/server/models"
	"github.com/akarpovs/contacthub/internal/server/qr"
	"github.com/akarpovs/contacthub/internal/server/repositories/contacts"
	"github.com/akarpovs/contacthub/internal/server/repositories/repomanager"
	"github.com/akarpovs/contacthub/internal/server/storage"
)

// ContactInput carries the writable contact fields for create and edit.
type ContactInput struct {
	Profile   string
	FirstName string
	LastName  string
	Number    string
	Gender    string
	Address   string
}

// ListResult is one page of contacts plus pagination totals.
type ListResult struct {
	Items        []*models.Contact
	TotalRecords int
	TotalPages   int
}

type ContactService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	encoder          qr.Encoder
	uploader         storage.Uploader
	frontendBaseURL  string
	qrDir            string
	provisionTimeout time.Duration
	logger           logging.Logger
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager, enc qr.Encoder,
	up storage.Uploader, cfg *config.Config, logger logging.Logger) *ContactService {
	return &ContactService{
		db:               db,
		repomanager:      m,
		encoder:          enc,
		uploader:         up,
		frontendBaseURL:  strings.TrimSuffix(cfg.FrontendBaseURL, "/"),
		qrDir:            cfg.QRCodeDir,
		provisionTimeout: cfg.ProvisionTimeout,
		logger:           logger.With("module", "contact_service"),
	}
}

// Provision creates a contact and generates/uploads its QR code.
//
// The record is persisted (step 3) before any artifact work so the QR payload
// can embed the durable id. When encoding or uploading fails afterwards, the
// record stays in place with an empty qrcode and is returned together with
// the error; re-running the artifact steps via Reprovision is the recovery
// path. Artifact names are keyed by the contact id, so retries overwrite
// instead of accumulating files.
func (s *ContactService) Provision(ctx context.Context, input ContactInput, creatorID string) (*models.Contact, error) {

	if input.FirstName == "" || input.Number == "" {
		return nil, common.ErrorInvalidInput
	}

	repo := s.repomanager.Contacts(s.db)

	_, err := repo.GetByNumber(ctx, input.Number)
	if err == nil {
		return nil, common.ErrorDuplicateContact
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking number: %w", err)
	}

	contact := &models.Contact{
		Profile:   input.Profile,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Number:    input.Number,
		Gender:    input.Gender,
		Address:   input.Address,
		CreatedBy: creatorID,
	}

	// the unique index on number is authoritative under concurrent creation
	contact, err = repo.Create(ctx, contact)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateContact) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating contact: %w", err)
	}

	if err := s.provisionArtifacts(ctx, contact); err != nil {
		s.logger.Error(ctx, "qr provisioning failed", "contact_id", contact.ID, "error", err.Error())
		return contact, err
	}

	return contact, nil
}

// Reprovision re-runs the artifact steps (encode, upload, persist URL) for an
// existing contact. Owner-only.
func (s *ContactService) Reprovision(ctx context.Context, contactID, requesterID string) (*models.Contact, error) {

	repo := s.repomanager.Contacts(s.db)

	contact, err := repo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	if contact.CreatedBy != requesterID {
		return nil, common.ErrorNotOwner
	}

	if err := s.provisionArtifacts(ctx, contact); err != nil {
		s.logger.Error(ctx, "qr reprovisioning failed", "contact_id", contact.ID, "error", err.Error())
		return contact, err
	}

	return contact, nil
}

// provisionArtifacts performs steps 4-7 of the workflow: build the payload
// URL, encode it to <qrDir>/<id>.png, upload under qrcodes/<id>.png, and
// persist the returned public URL onto the record. Runs under the configured
// timeout.
func (s *ContactService) provisionArtifacts(ctx context.Context, contact *models.Contact) error {

	ctx, cancel := context.WithTimeout(ctx, s.provisionTimeout)
	defer cancel()

	payload := fmt.Sprintf("%s/#/contacts/%s", s.frontendBaseURL, contact.ID)
	localPath := filepath.Join(s.qrDir, contact.ID+".png")

	if err := s.encoder.Encode(payload, localPath); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorEncodeFailure, err)
	}

	key := "qrcodes/" + contact.ID + ".png"
	url, err := s.uploader.Upload(ctx, localPath, key)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorUploadFailure, err)
	}

	repo := s.repomanager.Contacts(s.db)
	if err := repo.SetQRCode(ctx, contact.ID, url); err != nil {
		return fmt.Errorf("error saving qrcode url: %w", err)
	}

	contact.QRCode = url
	return nil
}

func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).GetByID(ctx, id)
}

// List returns one page of contacts matching filter.
//
// ErrorNoResults is returned when nothing matches at all; ErrorInvalidPage
// when pageNumber falls outside [1, totalPages] or pageSize is not positive.
func (s *ContactService) List(ctx context.Context, filter contacts.Filter, pageNumber, pageSize int) (*ListResult, error) {

	if pageSize < 1 {
		return nil, common.ErrorInvalidPage
	}

	repo := s.repomanager.Contacts(s.db)

	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting contacts: %w", err)
	}

	if total < 1 {
		return nil, common.ErrorNoResults
	}

	totalPages := (total + pageSize - 1) / pageSize

	if pageNumber < 1 || pageNumber > totalPages {
		return nil, common.ErrorInvalidPage
	}

	items, err := repo.List(ctx, filter, (pageNumber-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error selecting contacts: %w", err)
	}

	return &ListResult{Items: items, TotalRecords: total, TotalPages: totalPages}, nil
}

// Edit applies the non-empty fields of patch to an existing contact. The
// missing-record check runs before the ownership check; ownership of a
// missing record is undefined.
func (s *ContactService) Edit(ctx context.Context, id string, patch ContactInput, requesterID string) (*models.Contact, error) {

	repo := s.repomanager.Contacts(s.db)

	contact, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if contact.CreatedBy != requesterID {
		return nil, common.ErrorNotOwner
	}

	if patch.Profile != "" {
		contact.Profile = patch.Profile
	}
	if patch.FirstName != "" {
		contact.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		contact.LastName = patch.LastName
	}
	if patch.Gender != "" {
		contact.Gender = patch.Gender
	}
	if patch.Address != "" {
		contact.Address = patch.Address
	}

	if patch.Number != "" && patch.Number != contact.Number {
		existing, err := repo.GetByNumber(ctx, patch.Number)
		if err == nil && existing.ID != contact.ID {
			return nil, common.ErrorDuplicateContact
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error checking number: %w", err)
		}
		contact.Number = patch.Number
	}

	if contact.FirstName == "" || contact.Number == "" {
		return nil, common.ErrorInvalidInput
	}

	contact, err = repo.Update(ctx, contact)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateContact) || errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating contact: %w", err)
	}

	return contact, nil
}

// Delete removes a contact. Owner-only.
func (s *ContactService) Delete(ctx context.Context, id, requesterID string) error {

	repo := s.repomanager.Contacts(s.db)

	contact, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if contact.CreatedBy != requesterID {
		return common.ErrorNotOwner
	}

	return repo.Delete(ctx, id)
}
