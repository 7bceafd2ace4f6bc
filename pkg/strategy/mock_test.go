package strategy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/logandonley/courier/pkg/account"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/storage"
)

// mockObjectStorage is an in-memory bucket
type mockObjectStorage struct {
	mu         sync.Mutex
	objects    map[string]string
	putStatus  int
	putErr     error
	noLocation bool
	lastBucket string
}

func newMockObjectStorage() *mockObjectStorage {
	return &mockObjectStorage{objects: make(map[string]string)}
}

func (m *mockObjectStorage) Put(ctx context.Context, bucket, key, localPath string) (storage.PutResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastBucket = bucket
	if m.putErr != nil {
		return storage.PutResult{}, m.putErr
	}
	if m.putStatus != 0 && m.putStatus != http.StatusOK {
		return storage.PutResult{StatusCode: m.putStatus, Message: "Access Denied"}, nil
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return storage.PutResult{}, err
	}
	m.objects[key] = string(data)
	if m.noLocation {
		return storage.PutResult{StatusCode: http.StatusOK}, nil
	}
	return storage.PutResult{
		StatusCode: http.StatusOK,
		Location:   fmt.Sprintf("https://%s.s3.us-east-1.amazonaws.com/%s", bucket, key),
	}, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, bucket, key string) (storage.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.DeleteResult{StatusCode: http.StatusNotFound, Message: "NoSuchKey"}, nil
	}
	delete(m.objects, key)
	return storage.DeleteResult{StatusCode: http.StatusNoContent}, nil
}

// mockFileHosting is an in-memory drive
type mockFileHosting struct {
	token      string
	expired    bool
	refreshErr error
	refreshed  int
	files      map[string]*storage.FileMetadata
	public     map[string]bool
	nextID     int
	lastParent string
	lastMime   string
}

func newMockFileHosting(token string) *mockFileHosting {
	return &mockFileHosting{
		token:  token,
		files:  make(map[string]*storage.FileMetadata),
		public: make(map[string]bool),
	}
}

func (m *mockFileHosting) Token() (string, bool) { return m.token, m.expired }

func (m *mockFileHosting) Refresh(ctx context.Context) error {
	if m.refreshErr != nil {
		return m.refreshErr
	}
	m.refreshed++
	m.token = "refreshed-token"
	m.expired = false
	return nil
}

func (m *mockFileHosting) CreateFile(ctx context.Context, name, parentID, mimeType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.nextID++
	id := fmt.Sprintf("FILE%d", m.nextID)
	m.files[id] = &storage.FileMetadata{ID: id, Name: name}
	m.lastParent = parentID
	m.lastMime = mimeType
	return id, nil
}

func (m *mockFileHosting) GetFile(ctx context.Context, id string) (*storage.FileMetadata, error) {
	f, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotExist, id)
	}
	return f, nil
}

func (m *mockFileHosting) DeleteFile(ctx context.Context, id string) error {
	if _, ok := m.files[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotExist, id)
	}
	delete(m.files, id)
	return nil
}

func (m *mockFileHosting) SetPublic(ctx context.Context, id string) error {
	m.public[id] = true
	return nil
}

// mockSession records transfer session calls
type mockSession struct {
	connectErr error
	loginErr   error
	putErr     error
	creds      storage.Credentials
	dir        string
	files      map[string]bool
	calls      []string
	closed     int
}

func newMockSession() *mockSession {
	return &mockSession{files: make(map[string]bool)}
}

func (m *mockSession) Connect(ctx context.Context) error {
	m.calls = append(m.calls, "connect")
	return m.connectErr
}

func (m *mockSession) Login(ctx context.Context, creds storage.Credentials) error {
	m.calls = append(m.calls, "login")
	m.creds = creds
	return m.loginErr
}

func (m *mockSession) ChangeDir(ctx context.Context, dir string) error {
	m.calls = append(m.calls, "chdir")
	m.dir = dir
	return nil
}

func (m *mockSession) Put(ctx context.Context, localPath, remotePath string) error {
	m.calls = append(m.calls, "put")
	if m.putErr != nil {
		return m.putErr
	}
	m.files[remotePath] = true
	return nil
}

func (m *mockSession) Delete(ctx context.Context, remotePath string) error {
	m.calls = append(m.calls, "delete")
	if !m.files[remotePath] {
		return fmt.Errorf("%w: %s", storage.ErrNotExist, remotePath)
	}
	delete(m.files, remotePath)
	return nil
}

func (m *mockSession) Close() error {
	m.calls = append(m.calls, "close")
	m.closed++
	return nil
}

// scriptedStrategy lets lifecycle tests control each hook
type scriptedStrategy struct {
	beforeErr  error
	uploadErr  error
	deleteErr  error
	panicIn    string
	block      bool
	calls      []string
	afterCtxOK bool
}

func (s *scriptedStrategy) Type() account.Type { return account.TypeAWSS3 }
func (s *scriptedStrategy) Name() string       { return "scripted" }

func (s *scriptedStrategy) BeforeExecute(ctx context.Context) error {
	s.calls = append(s.calls, "before")
	if s.panicIn == "before" {
		panic("boom")
	}
	return s.beforeErr
}

func (s *scriptedStrategy) DoUpload(ctx context.Context, src *file.Source) (string, error) {
	s.calls = append(s.calls, "upload")
	if s.panicIn == "upload" {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://example.com/" + filepath.Base(src.LocalPath()), nil
}

func (s *scriptedStrategy) DoDelete(ctx context.Context, target file.Target) (string, error) {
	s.calls = append(s.calls, "delete")
	if s.deleteErr != nil {
		return "", s.deleteErr
	}
	return "deleted " + target.RemoteName(), nil
}

func (s *scriptedStrategy) AfterExecute(ctx context.Context) error {
	s.calls = append(s.calls, "after")
	s.afterCtxOK = ctx.Err() == nil
	if s.panicIn == "after" {
		panic("cleanup boom")
	}
	return nil
}

// writeTempFile creates a local source file
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return p
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
