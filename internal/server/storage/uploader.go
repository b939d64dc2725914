// Package storage pushes local artifacts to object storage and hands back
// durable public URLs.
package storage

import "context"

// Uploader copies the file at localPath to object storage under key and
// returns the public URL of the uploaded object. Re-uploading the same key
// overwrites the object rather than duplicating it.
type Uploader interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}
