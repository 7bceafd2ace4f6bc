// Package strategy selects and runs the backend-specific upload and delete
// implementations.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
)

// Strategy is the backend-specific part of an upload or delete. The
// lifecycle functions Upload and Delete drive it.
type Strategy interface {
	// Type returns the backend the strategy serves
	Type() account.Type

	// Name identifies the concrete strategy in logs and CLI output
	Name() string

	// BeforeExecute checks connectivity and authentication
	BeforeExecute(ctx context.Context) error

	// DoUpload performs the upload and returns the resource locator
	DoUpload(ctx context.Context, src *file.Source) (string, error)

	// DoDelete performs the removal and returns a human readable message
	DoDelete(ctx context.Context, target file.Target) (string, error)

	// AfterExecute releases connections. It runs after every call.
	AfterExecute(ctx context.Context) error
}

// TransferStrategy is implemented by the file transfer protocol strategies
type TransferStrategy interface {
	Strategy
	Login(ctx context.Context) error
	ChangeToWorkDir(ctx context.Context) error
}

// Ports are the backend clients strategies call through
type Ports struct {
	ObjectStorage storage.ObjectStorage
	FileHosting   storage.FileHosting
	Transfer      storage.TransferSession
}

// Assemble returns the strategy for t. It performs no I/O.
func Assemble(t account.Type, acct account.Descriptor, set *settings.Settings, ports Ports) (Strategy, error) {
	if set == nil {
		set = &settings.Settings{}
	}

	switch t {
	case account.TypeFTP:
		a, ok := acct.(account.TransferAccount)
		if !ok {
			return nil, mismatch(t, acct)
		}
		if a.Secure {
			return NewSFTPStrategy(a, set, ports.Transfer), nil
		}
		return NewFTPStrategy(a, set, ports.Transfer), nil

	case account.TypeAWSS3:
		a, ok := acct.(account.ObjectStoreAccount)
		if !ok {
			return nil, mismatch(t, acct)
		}
		return NewObjectStoreStrategy(a, set, ports.ObjectStorage), nil

	case account.TypeGoogleDrive:
		a, ok := acct.(account.DriveAccount)
		if !ok {
			return nil, mismatch(t, acct)
		}
		return NewDriveStrategy(a, set, ports.FileHosting), nil

	default:
		return nil, cerrors.UnsupportedBackend(string(t))
	}
}

func mismatch(t account.Type, acct account.Descriptor) error {
	return cerrors.Configurationf(string(t), "account descriptor %T does not match the backend", acct)
}

// sourceName checks the local file and resolves its remote name
func sourceName(src *file.Source, set *settings.Settings) (string, error) {
	if src == nil {
		return "", cerrors.NotFound("no source file given", nil)
	}

	info, err := os.Stat(src.LocalPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", cerrors.NotFound(fmt.Sprintf("local file %s not found", src.LocalPath()), err)
		}
		return "", cerrors.Internal(fmt.Sprintf("failed to stat %s", src.LocalPath()), err)
	}
	if info.IsDir() {
		return "", cerrors.Configurationf("upload", "%s is a directory", src.LocalPath())
	}

	name, err := src.RemoteName(set)
	if err != nil {
		return "", cerrors.Internal("failed to resolve remote file name", err)
	}
	return name, nil
}

// pathPrefix returns Settings.path with exactly one trailing slash, or ""
func pathPrefix(set *settings.Settings) string {
	p := strings.TrimSpace(set.String(settings.Path, ""))
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}
