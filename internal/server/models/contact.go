package models

import "time"

// Contact is one address-book record.
//
// Number is globally unique (enforced by a unique index). QRCode is either
// empty, meaning provisioning has not completed for this record, or a fully
// resolved public URL. CreatedBy is the owning user id; only the owner may
// mutate or delete the record.
type Contact struct {
	ID        string
	Profile   string
	FirstName string
	LastName  string
	Number    string
	Gender    string
	Address   string
	QRCode    string
	CreatedBy string
	CreatedAt time.Time
}
