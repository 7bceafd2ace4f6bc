package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/logandonley/courier/pkg/logging"
)

// DriveConfig holds the OAuth client and tokens of a Google Drive account
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// DriveClient implements FileHosting with the Drive v3 API
type DriveClient struct {
	oauth   *oauth2.Config
	mu      sync.Mutex
	token   *oauth2.Token
	service *drive.Service
}

// NewDriveClient creates a Drive client. The token is used as given until
// Refresh replaces it.
func NewDriveClient(config *DriveConfig) (*DriveClient, error) {
	c := &DriveClient{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{drive.DriveFileScope},
		},
		token: &oauth2.Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		},
	}

	service, err := drive.NewService(context.Background(), option.WithTokenSource(driveTokenSource{c}))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	c.service = service
	return c, nil
}

// Token returns the current access token. A token without an expiry is
// treated as unexpired.
func (c *DriveClient) Token() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token.AccessToken, c.token.AccessToken != "" && !c.token.Valid()
}

// oauthToken backs the token source handed to the Drive service
func (c *DriveClient) oauthToken() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.AccessToken == "" {
		return nil, fmt.Errorf("no access token")
	}
	return c.token, nil
}

// Refresh exchanges the refresh token for a new access token
func (c *DriveClient) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.token.RefreshToken
	c.mu.Unlock()

	if refresh == "" {
		return fmt.Errorf("no refresh token")
	}

	tok, err := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refresh
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()
	logging.Debug("refreshed Drive access token")
	return nil
}

// CreateFile uploads body and returns the new file id
func (c *DriveClient) CreateFile(ctx context.Context, name, parentID, mimeType string, body io.Reader) (string, error) {
	meta := &drive.File{Name: name}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	call := c.service.Files.Create(meta).Fields("id").Context(ctx)
	if mimeType != "" {
		call = call.Media(body, googleapi.ContentType(mimeType))
	} else {
		call = call.Media(body)
	}

	created, err := call.Do()
	if err != nil {
		return "", mapDriveError(err)
	}
	logging.Debug("created Drive file", zap.String("id", created.Id))
	return created.Id, nil
}

// GetFile returns metadata for id
func (c *DriveClient) GetFile(ctx context.Context, id string) (*FileMetadata, error) {
	f, err := c.service.Files.Get(id).Fields("id", "name", "trashed").Context(ctx).Do()
	if err != nil {
		return nil, mapDriveError(err)
	}
	return &FileMetadata{ID: f.Id, Name: f.Name, Trashed: f.Trashed}, nil
}

// DeleteFile permanently removes id
func (c *DriveClient) DeleteFile(ctx context.Context, id string) error {
	if err := c.service.Files.Delete(id).Context(ctx).Do(); err != nil {
		return mapDriveError(err)
	}
	return nil
}

// SetPublic grants anyone with the link read access
func (c *DriveClient) SetPublic(ctx context.Context, id string) error {
	perm := &drive.Permission{Role: "reader", Type: "anyone"}
	if _, err := c.service.Permissions.Create(id, perm).Context(ctx).Do(); err != nil {
		return mapDriveError(err)
	}
	return nil
}

func mapDriveError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	if gerr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %v", ErrNotExist, err)
	}
	return &StatusError{StatusCode: gerr.Code, Err: err}
}

type driveTokenSource struct{ c *DriveClient }

func (s driveTokenSource) Token() (*oauth2.Token, error) { return s.c.oauthToken() }
