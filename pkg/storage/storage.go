package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotExist is returned (wrapped) when a remote file is absent
var ErrNotExist = errors.New("remote file does not exist")

// StatusError carries a provider status code for a rejected request
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// PutResult is the outcome of an object upload. A non-2xx StatusCode means
// the provider rejected the request; Message then holds its explanation.
type PutResult struct {
	StatusCode int
	Location   string
	Message    string
}

// DeleteResult is the outcome of an object removal
type DeleteResult struct {
	StatusCode int
	Message    string
}

// ObjectStorage is the port to an object store
type ObjectStorage interface {
	// Put uploads the file at localPath to bucket/key
	Put(ctx context.Context, bucket, key, localPath string) (PutResult, error)

	// Delete removes bucket/key
	Delete(ctx context.Context, bucket, key string) (DeleteResult, error)
}

// FileMetadata describes a hosted file
type FileMetadata struct {
	ID      string
	Name    string
	Trashed bool
}

// FileHosting is the port to a hosted-drive service
type FileHosting interface {
	// Token returns the current access token and whether it has expired
	Token() (accessToken string, expired bool)

	// Refresh obtains a new access token from the refresh token
	Refresh(ctx context.Context) error

	// CreateFile uploads body as name under parentID (root when empty) and returns its id
	CreateFile(ctx context.Context, name, parentID, mimeType string, body io.Reader) (string, error)

	// GetFile returns metadata for id
	GetFile(ctx context.Context, id string) (*FileMetadata, error)

	// DeleteFile permanently removes id
	DeleteFile(ctx context.Context, id string) error

	// SetPublic grants anyone read access to id
	SetPublic(ctx context.Context, id string) error
}

// Credentials used to log in to a transfer host. KeyFile is only honoured
// by SSH sessions.
type Credentials struct {
	User     string
	Password string
	KeyFile  string
}

// TransferSession is the port to an FTP or SFTP host
type TransferSession interface {
	// Connect opens the network connection
	Connect(ctx context.Context) error

	// Login authenticates the connection
	Login(ctx context.Context, creds Credentials) error

	// ChangeDir makes dir the base for relative remote paths
	ChangeDir(ctx context.Context, dir string) error

	// Put uploads the file at localPath to remotePath, creating parent directories
	Put(ctx context.Context, localPath, remotePath string) error

	// Delete removes remotePath
	Delete(ctx context.Context, remotePath string) error

	// Close closes any open connections
	Close() error
}
