package strategy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
)

// ObjectStoreStrategy uploads to and deletes from an S3 bucket
type ObjectStoreStrategy struct {
	account  account.ObjectStoreAccount
	settings *settings.Settings
	client   storage.ObjectStorage
}

// NewObjectStoreStrategy creates the object store strategy
func NewObjectStoreStrategy(acct account.ObjectStoreAccount, set *settings.Settings, client storage.ObjectStorage) *ObjectStoreStrategy {
	if set == nil {
		set = &settings.Settings{}
	}
	return &ObjectStoreStrategy{account: acct, settings: set, client: client}
}

func (s *ObjectStoreStrategy) Type() account.Type { return account.TypeAWSS3 }

func (s *ObjectStoreStrategy) Name() string {
	if s.account.StorageType == account.StorageMinio {
		return "object-store/minio"
	}
	return "object-store/s3"
}

// BeforeExecute requires a client
func (s *ObjectStoreStrategy) BeforeExecute(ctx context.Context) error {
	if s.client == nil {
		return cerrors.Connectivity(fmt.Sprintf("no object storage client for bucket %s", s.account.Bucket), nil)
	}
	return nil
}

func (s *ObjectStoreStrategy) DoUpload(ctx context.Context, src *file.Source) (string, error) {
	name, err := sourceName(src, s.settings)
	if err != nil {
		return "", err
	}
	key := s.key(name)

	res, err := s.client.Put(ctx, s.account.Bucket, key, src.LocalPath())
	if err != nil {
		return "", cerrors.Connectivity(fmt.Sprintf("failed to upload %s", key), err)
	}
	if !success(res.StatusCode) {
		return "", s.rejected(res.StatusCode, "upload", key, res.Message)
	}

	if res.Location != "" {
		return res.Location, nil
	}
	// Providers that report no location get the bucket's s3:// URI
	u := url.URL{Scheme: "s3", Host: s.account.Bucket, Path: "/" + key}
	return u.String(), nil
}

func (s *ObjectStoreStrategy) DoDelete(ctx context.Context, target file.Target) (string, error) {
	name := target.RemoteName()
	if name == "" {
		return "", cerrors.NotFound(fmt.Sprintf("no object name in %q", target.Locator()), nil)
	}
	key := s.key(name)

	res, err := s.client.Delete(ctx, s.account.Bucket, key)
	if err != nil {
		return "", cerrors.Connectivity(fmt.Sprintf("failed to delete %s", key), err)
	}
	if !success(res.StatusCode) {
		return "", s.rejected(res.StatusCode, "delete", key, res.Message)
	}

	return fmt.Sprintf("object %s deleted from bucket %s", key, s.account.Bucket), nil
}

func (s *ObjectStoreStrategy) AfterExecute(ctx context.Context) error {
	return nil
}

// key is the path prefix plus name, without a leading slash
func (s *ObjectStoreStrategy) key(name string) string {
	return strings.TrimLeft(pathPrefix(s.settings)+name, "/")
}

func (s *ObjectStoreStrategy) rejected(code int, op, key, detail string) error {
	msg := fmt.Sprintf("%s of %s rejected with status %d", op, key, code)
	if detail != "" {
		msg += ": " + detail
	}
	switch code {
	case http.StatusNotFound:
		return cerrors.NotFound(msg, nil)
	default:
		return cerrors.Transfer(code, msg, nil)
	}
}

func success(code int) bool {
	return code >= 200 && code < 300
}
