// Package qr wraps QR image generation behind a small interface so the
// provisioning workflow can be tested without touching the filesystem.
package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder turns a payload string into a PNG image at path. Implementations
// must overwrite an existing file so repeated encodes for the same entity
// stay idempotent.
type Encoder interface {
	Encode(payload, path string) error
}

// PNGEncoder writes medium-redundancy 256x256 PNG codes.
type PNGEncoder struct {
	size int
}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{size: 256}
}

func (e *PNGEncoder) Encode(payload, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	if err := qrcode.WriteFile(payload, qrcode.Medium, e.size, path); err != nil {
		return fmt.Errorf("qr encode: %w", err)
	}

	return nil
}
