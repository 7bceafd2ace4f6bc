package cloud

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/response"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
	"github.com/logandonley/courier/pkg/strategy"
)

// stubSession accepts every transfer
type stubSession struct {
	stored []string
	closed bool
}

func (s *stubSession) Connect(ctx context.Context) error                          { return nil }
func (s *stubSession) Login(ctx context.Context, creds storage.Credentials) error { return nil }
func (s *stubSession) ChangeDir(ctx context.Context, dir string) error            { return nil }
func (s *stubSession) Put(ctx context.Context, localPath, remotePath string) error {
	s.stored = append(s.stored, remotePath)
	return nil
}
func (s *stubSession) Delete(ctx context.Context, remotePath string) error { return nil }
func (s *stubSession) Close() error {
	s.closed = true
	return nil
}

// forbiddenStore rejects every upload
type forbiddenStore struct{}

func (forbiddenStore) Put(ctx context.Context, bucket, key, localPath string) (storage.PutResult, error) {
	return storage.PutResult{StatusCode: http.StatusForbidden, Message: "Access Denied"}, nil
}

func (forbiddenStore) Delete(ctx context.Context, bucket, key string) (storage.DeleteResult, error) {
	return storage.DeleteResult{StatusCode: http.StatusNoContent}, nil
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return p
}

func TestNew_FTPScenario(t *testing.T) {
	raw := map[string]any{
		"secureTransport": false,
		"host":            "h",
		"user":            "u",
		"password":        "p",
		"port":            21,
	}
	session := &stubSession{}

	svc, err := New(account.TypeFTP, raw, WithTransferSession(session), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	if _, ok := svc.Strategy().(*strategy.FTPStrategy); !ok {
		t.Fatalf("Expected *strategy.FTPStrategy, got %T", svc.Strategy())
	}

	resp := svc.Upload(testContext(t), file.NewSource(writeFile(t, "a.txt")))

	if resp.Kind() != response.KindSuccess || resp.Code() != http.StatusOK {
		t.Fatalf("Expected Success 200, got %v", resp)
	}
	if resp.ResourceURL() != "ftp://h:21/a.txt" {
		t.Errorf("Unexpected URL %q", resp.ResourceURL())
	}
	if !session.closed {
		t.Error("Expected the session to be closed")
	}
}

func TestNew_SelectsDefaultPorts(t *testing.T) {
	tests := []struct {
		name     string
		t        account.Type
		raw      map[string]any
		expected string
	}{
		{
			name:     "ftp",
			t:        account.TypeFTP,
			raw:      map[string]any{"host": "h", "port": 21, "user": "u", "password": "p"},
			expected: "ftp",
		},
		{
			name:     "sftp",
			t:        account.TypeFTP,
			raw:      map[string]any{"host": "h", "port": 22, "user": "u", "password": "p", "secureTransport": true},
			expected: "sftp",
		},
		{
			name:     "minio",
			t:        account.TypeAWSS3,
			raw:      map[string]any{"key": "k", "secretKey": "s", "region": "us-east-1", "bucketName": "b", "type": "minio", "endpoint": "http://localhost:9000"},
			expected: "object-store/minio",
		},
		{
			name:     "drive",
			t:        account.TypeGoogleDrive,
			raw:      map[string]any{"clientId": "c", "clientSecret": "s", "accessToken": "a"},
			expected: "drive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := New(tt.t, tt.raw, WithLogger(zap.NewNop()))
			if err != nil {
				t.Fatalf("Failed to create service: %v", err)
			}
			if got := svc.Strategy().Name(); got != tt.expected {
				t.Errorf("Strategy = %q, want %q", got, tt.expected)
			}
			if svc.Type() != tt.t || svc.Account().Type() != tt.t {
				t.Errorf("Type mismatch: service %s, account %s", svc.Type(), svc.Account().Type())
			}
		})
	}
}

func TestNew_MissingBucketName(t *testing.T) {
	raw := map[string]any{"key": "k", "secretKey": "s", "region": "us-east-1"}

	_, err := New(account.TypeAWSS3, raw)

	var ce *cerrors.Error
	if !errors.As(err, &ce) || ce.Kind != cerrors.KindConfiguration || ce.Field != "bucketName" {
		t.Fatalf("Expected configuration error naming bucketName, got %v", err)
	}
}

func TestNew_UnsupportedBackend(t *testing.T) {
	_, err := New(account.Type("DROPBOX"), map[string]any{})
	if !errors.Is(err, cerrors.ErrUnsupportedBackend) {
		t.Fatalf("Expected unsupported backend error, got %v", err)
	}
}

func TestUpload_RejectedKeepsLocalFile(t *testing.T) {
	raw := map[string]any{"key": "k", "secretKey": "s", "region": "us-east-1", "bucketName": "b"}
	svc, err := New(account.TypeAWSS3, raw, WithObjectStorage(forbiddenStore{}), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	local := writeFile(t, "a.txt")
	resp := svc.Upload(testContext(t), file.NewSource(local))

	if resp.Kind() != response.KindError || resp.Code() != http.StatusForbidden {
		t.Fatalf("Expected Error 403, got %v", resp)
	}
	if _, err := os.Stat(local); err != nil {
		t.Errorf("Local file should still exist: %v", err)
	}
}

func TestUpload_SettingsKeepLocalFile(t *testing.T) {
	raw := map[string]any{"host": "h", "port": 21, "user": "u", "password": "p"}
	set := settings.New(map[string]any{settings.CanDeleteAfterUpload: false, settings.Path: "in"})
	session := &stubSession{}

	svc, err := New(account.TypeFTP, raw, WithSettings(set), WithTransferSession(session), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	if svc.Settings() != set {
		t.Error("Expected the service to keep the given settings")
	}

	local := writeFile(t, "a.txt")
	if resp := svc.Upload(testContext(t), file.NewSource(local)); !resp.OK() {
		t.Fatalf("Expected success, got %v", resp)
	}
	if _, err := os.Stat(local); err != nil {
		t.Errorf("Local file should still exist: %v", err)
	}
	if len(session.stored) != 1 || session.stored[0] != "in/a.txt" {
		t.Errorf("Unexpected stored paths %v", session.stored)
	}
}

func TestDelete_ReturnsDeleteSuccess(t *testing.T) {
	raw := map[string]any{"host": "h", "port": 21, "user": "u", "password": "p"}
	svc, err := New(account.TypeFTP, raw, WithTransferSession(&stubSession{}), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	resp := svc.Delete(testContext(t), file.NewTarget("https://host/dir/sub/report.pdf"))

	if resp.Kind() != response.KindDeleteSuccess || resp.Code() != http.StatusOK {
		t.Fatalf("Expected DeleteSuccess 200, got %v", resp)
	}
}
