package strategy

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
)

const defaultMimeType = "application/octet-stream"

// ViewURL returns the canonical view URL for a Drive file id
func ViewURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", id)
}

// DriveStrategy uploads to and deletes from Google Drive
type DriveStrategy struct {
	account  account.DriveAccount
	settings *settings.Settings
	client   storage.FileHosting
}

// NewDriveStrategy creates the hosted-drive strategy
func NewDriveStrategy(acct account.DriveAccount, set *settings.Settings, client storage.FileHosting) *DriveStrategy {
	if set == nil {
		set = &settings.Settings{}
	}
	return &DriveStrategy{account: acct, settings: set, client: client}
}

func (s *DriveStrategy) Type() account.Type { return account.TypeGoogleDrive }

func (s *DriveStrategy) Name() string { return "drive" }

// BeforeExecute makes sure a usable access token is present, refreshing it
// when it is missing or expired
func (s *DriveStrategy) BeforeExecute(ctx context.Context) error {
	if s.client == nil {
		return cerrors.Connectivity("no drive client", nil)
	}

	token, expired := s.client.Token()
	if token != "" && !expired {
		return nil
	}

	if s.account.RefreshToken == "" {
		return cerrors.Auth("access token expired and no refresh token is configured", nil)
	}
	if err := s.client.Refresh(ctx); err != nil {
		return cerrors.Auth("failed to refresh access token", err)
	}
	if token, _ = s.client.Token(); token == "" {
		return cerrors.Auth("refresh returned no access token", nil)
	}
	return nil
}

func (s *DriveStrategy) DoUpload(ctx context.Context, src *file.Source) (string, error) {
	name, err := sourceName(src, s.settings)
	if err != nil {
		return "", err
	}

	f, err := os.Open(src.LocalPath())
	if err != nil {
		return "", cerrors.NotFound(fmt.Sprintf("failed to open %s", src.LocalPath()), err)
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(src.LocalPath()))
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	id, err := s.client.CreateFile(ctx, name, s.account.FolderID, mimeType, f)
	if err != nil {
		return "", driveError(fmt.Sprintf("failed to create %s", name), err)
	}

	if s.settings.Bool(settings.MakePublic, false) {
		if err := s.client.SetPublic(ctx, id); err != nil {
			return "", driveError(fmt.Sprintf("failed to make %s public", id), err)
		}
	}

	return ViewURL(id), nil
}

func (s *DriveStrategy) DoDelete(ctx context.Context, target file.Target) (string, error) {
	id := target.FileID()
	if id == "" {
		return "", cerrors.NotFound(fmt.Sprintf("no file id in %q", target.Locator()), nil)
	}

	meta, err := s.client.GetFile(ctx, id)
	if err != nil {
		return "", driveError(fmt.Sprintf("file %s not available", id), err)
	}
	if meta.Trashed {
		return "", cerrors.NotFound(fmt.Sprintf("file %s was already removed", id), nil)
	}

	if err := s.client.DeleteFile(ctx, id); err != nil {
		return "", driveError(fmt.Sprintf("failed to delete %s", id), err)
	}

	return fmt.Sprintf("file %s (%s) deleted", meta.Name, id), nil
}

func (s *DriveStrategy) AfterExecute(ctx context.Context) error {
	return nil
}

func driveError(msg string, err error) error {
	if errors.Is(err, storage.ErrNotExist) {
		return cerrors.NotFound(msg, err)
	}

	var se *storage.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusUnauthorized {
			return cerrors.Auth(msg, err)
		}
		return cerrors.Transfer(se.StatusCode, msg, err)
	}
	return cerrors.Connectivity(msg, err)
}
