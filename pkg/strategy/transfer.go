package strategy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
)

// transfer holds what FTP and SFTP share. The variants differ only in Login.
type transfer struct {
	account   account.TransferAccount
	settings  *settings.Settings
	session   storage.TransferSession
	scheme    string
	connected bool
}

func newTransfer(acct account.TransferAccount, set *settings.Settings, session storage.TransferSession, scheme string) transfer {
	if set == nil {
		set = &settings.Settings{}
	}
	return transfer{account: acct, settings: set, session: session, scheme: scheme}
}

func (t *transfer) Type() account.Type { return account.TypeFTP }

func (t *transfer) addr() string {
	return net.JoinHostPort(t.account.Host, strconv.Itoa(t.account.Port))
}

// prepare connects, runs the variant's login and enters the work directory
func (t *transfer) prepare(ctx context.Context, login func(context.Context) error) error {
	if t.session == nil {
		return cerrors.Connectivity(fmt.Sprintf("no transfer session for %s", t.addr()), nil)
	}
	if err := t.session.Connect(ctx); err != nil {
		return cerrors.Connectivity(fmt.Sprintf("failed to connect to %s", t.addr()), err)
	}
	t.connected = true

	if err := login(ctx); err != nil {
		return err
	}
	return t.ChangeToWorkDir(ctx)
}

// ChangeToWorkDir enters the configured work directory, if any
func (t *transfer) ChangeToWorkDir(ctx context.Context) error {
	if t.account.WorkDir == "" {
		return nil
	}
	if err := t.session.ChangeDir(ctx, t.account.WorkDir); err != nil {
		return sessionError(fmt.Sprintf("failed to enter work directory %s", t.account.WorkDir), err)
	}
	return nil
}

func (t *transfer) DoUpload(ctx context.Context, src *file.Source) (string, error) {
	name, err := sourceName(src, t.settings)
	if err != nil {
		return "", err
	}
	remote := pathPrefix(t.settings) + name

	if err := t.session.Put(ctx, src.LocalPath(), remote); err != nil {
		return "", sessionError(fmt.Sprintf("failed to upload %s", remote), err)
	}
	return t.resourceURL(remote), nil
}

func (t *transfer) DoDelete(ctx context.Context, target file.Target) (string, error) {
	name := target.RemoteName()
	if name == "" {
		return "", cerrors.NotFound(fmt.Sprintf("no file name in %q", target.Locator()), nil)
	}
	remote := pathPrefix(t.settings) + name

	if err := t.session.Delete(ctx, remote); err != nil {
		return "", sessionError(fmt.Sprintf("failed to delete %s", remote), err)
	}
	return fmt.Sprintf("file %s deleted from %s", remote, t.account.Host), nil
}

// AfterExecute closes the session opened by BeforeExecute
func (t *transfer) AfterExecute(ctx context.Context) error {
	if !t.connected {
		return nil
	}
	t.connected = false
	return t.session.Close()
}

// resourceURL uses the public access URL when configured, otherwise the
// protocol URL of the remote file
func (t *transfer) resourceURL(remote string) string {
	if t.account.AccessURL != "" {
		return strings.TrimRight(t.account.AccessURL, "/") + "/" + strings.TrimLeft(remote, "/")
	}

	p := remote
	if !strings.HasPrefix(remote, "/") {
		p = path.Join("/", t.account.WorkDir, remote)
	}
	u := url.URL{Scheme: t.scheme, Host: t.addr(), Path: p}
	return u.String()
}

// sessionError keeps the server's reply code when the session reports one
func sessionError(msg string, err error) error {
	if errors.Is(err, storage.ErrNotExist) {
		return cerrors.NotFound(msg, err)
	}
	var se *storage.StatusError
	if errors.As(err, &se) {
		return cerrors.Transfer(se.StatusCode, msg, err)
	}
	return cerrors.Transfer(0, msg, err)
}

// FTPStrategy transfers over plain FTP with user and password
type FTPStrategy struct {
	transfer
}

// NewFTPStrategy creates the credential-based transfer strategy
func NewFTPStrategy(acct account.TransferAccount, set *settings.Settings, session storage.TransferSession) *FTPStrategy {
	return &FTPStrategy{transfer: newTransfer(acct, set, session, "ftp")}
}

func (s *FTPStrategy) Name() string { return "ftp" }

func (s *FTPStrategy) BeforeExecute(ctx context.Context) error {
	return s.prepare(ctx, s.Login)
}

// Login authenticates with user and password
func (s *FTPStrategy) Login(ctx context.Context) error {
	creds := storage.Credentials{User: s.account.User, Password: s.account.Password}
	if err := s.session.Login(ctx, creds); err != nil {
		return cerrors.Auth(fmt.Sprintf("FTP login failed for %s", s.account.User), err)
	}
	return nil
}

// SFTPStrategy transfers over SSH, authenticating with a private key when one is configured
type SFTPStrategy struct {
	transfer
}

// NewSFTPStrategy creates the key-based transfer strategy
func NewSFTPStrategy(acct account.TransferAccount, set *settings.Settings, session storage.TransferSession) *SFTPStrategy {
	return &SFTPStrategy{transfer: newTransfer(acct, set, session, "sftp")}
}

func (s *SFTPStrategy) Name() string { return "sftp" }

func (s *SFTPStrategy) BeforeExecute(ctx context.Context) error {
	return s.prepare(ctx, s.Login)
}

// Login performs the SSH handshake
func (s *SFTPStrategy) Login(ctx context.Context) error {
	creds := storage.Credentials{
		User:     s.account.User,
		Password: s.account.Password,
		KeyFile:  s.account.KeyFile,
	}
	if err := s.session.Login(ctx, creds); err != nil {
		return cerrors.Auth(fmt.Sprintf("SSH login failed for %s", s.account.User), err)
	}
	return nil
}
