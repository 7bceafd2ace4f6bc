// Package file models the local file handed to an upload and the remote
// locator handed to a delete.
package file

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/logandonley/courier/pkg/crypto"
	"github.com/logandonley/courier/pkg/settings"
)

// NamingPolicy picks the remote name for a local file
type NamingPolicy interface {
	RemoteName(localPath string, s *settings.Settings) (string, error)
}

// Source is a local file to upload
type Source struct {
	path   string
	policy NamingPolicy
}

// NewSource wraps a local path with the default naming policy
func NewSource(localPath string) *Source {
	return &Source{path: localPath, policy: DefaultPolicy{}}
}

// WithPolicy replaces the naming policy
func (s *Source) WithPolicy(p NamingPolicy) *Source {
	s.policy = p
	return s
}

// LocalPath returns the path of the file on disk
func (s *Source) LocalPath() string {
	return s.path
}

// RemoteName resolves the remote file name using the current settings
func (s *Source) RemoteName(set *settings.Settings) (string, error) {
	if s.policy == nil {
		return DefaultPolicy{}.RemoteName(s.path, set)
	}
	return s.policy.RemoteName(s.path, set)
}

// DefaultPolicy keeps the base name unless canEncryptName is set, in which
// case the name becomes a content digest keyed by nameSecret when present
type DefaultPolicy struct{}

func (DefaultPolicy) RemoteName(localPath string, set *settings.Settings) (string, error) {
	if set == nil || !set.Bool(settings.CanEncryptName, false) {
		return Verbatim{}.RemoteName(localPath, set)
	}
	return Hashed{}.RemoteName(localPath, set)
}

// Verbatim always uses the local base name
type Verbatim struct{}

func (Verbatim) RemoteName(localPath string, _ *settings.Settings) (string, error) {
	return filepath.Base(localPath), nil
}

// Hashed always obscures the name
type Hashed struct{}

func (Hashed) RemoteName(localPath string, set *settings.Settings) (string, error) {
	var key []byte
	if set != nil {
		if secret := set.String(settings.NameSecret, ""); secret != "" {
			key = crypto.DeriveKey(secret)
		}
	}
	return crypto.HashFileName(localPath, key)
}

var drivePattern = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)

// Target is a remote locator (URL or path) to delete
type Target struct {
	locator string
}

// NewTarget wraps a locator string
func NewTarget(locator string) Target {
	return Target{locator: locator}
}

// Locator returns the string the target was created from
func (t Target) Locator() string {
	return t.locator
}

// RemoteName resolves the locator to a backend identifier. The order is
// fixed: drive file URL, then URL path, then last slash-separated token.
func (t Target) RemoteName() string {
	if m := drivePattern.FindStringSubmatch(t.locator); m != nil {
		return m[1]
	}

	if u, err := url.Parse(t.locator); err == nil && u.Path != "" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if name := parts[len(parts)-1]; name != "" {
			return name
		}
	}

	parts := strings.Split(t.locator, "/")
	return parts[len(parts)-1]
}

// FileID is RemoteName under the name hosted-drive callers expect
func (t Target) FileID() string {
	return t.RemoteName()
}
