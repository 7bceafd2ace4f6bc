package storage

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/logging"
)

// MinioConfig holds the configuration for a MinIO server
type MinioConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// MinioStorage implements ObjectStorage with the MinIO client
type MinioStorage struct {
	client *minio.Client
}

// NewMinioStorage creates a client for the endpoint. A scheme on the
// endpoint selects TLS; without one TLS is used.
func NewMinioStorage(config *MinioConfig) (*MinioStorage, error) {
	host, secure := splitEndpoint(config.Endpoint)
	if host == "" {
		return nil, fmt.Errorf("minio: endpoint is required")
	}

	region := config.Region
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}

	return &MinioStorage{client: client}, nil
}

func splitEndpoint(endpoint string) (string, bool) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return strings.TrimRight(endpoint, "/"), true
	}
	return u.Host, u.Scheme != "http"
}

// Put uploads a file to the bucket
func (m *MinioStorage) Put(ctx context.Context, bucket, key, localPath string) (PutResult, error) {
	logging.Debug("uploading object to MinIO", zap.String("bucket", bucket), zap.String("key", key))

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(localPath))}
	if _, err := m.client.FPutObject(ctx, bucket, key, localPath, opts); err != nil {
		if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
			return PutResult{StatusCode: resp.StatusCode, Message: resp.Message}, nil
		}
		return PutResult{}, fmt.Errorf("minio: failed to upload to %s: %w", key, err)
	}

	return PutResult{
		StatusCode: http.StatusOK,
		Location:   fmt.Sprintf("%s/%s/%s", m.client.EndpointURL().String(), bucket, escapeKey(key)),
	}, nil
}

// Delete removes an object from the bucket
func (m *MinioStorage) Delete(ctx context.Context, bucket, key string) (DeleteResult, error) {
	logging.Debug("deleting object from MinIO", zap.String("bucket", bucket), zap.String("key", key))

	if err := m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
			return DeleteResult{StatusCode: resp.StatusCode, Message: resp.Message}, nil
		}
		return DeleteResult{}, fmt.Errorf("minio: failed to delete %s: %w", key, err)
	}

	return DeleteResult{StatusCode: http.StatusNoContent}, nil
}
