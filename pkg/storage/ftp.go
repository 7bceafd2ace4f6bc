package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"os"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/logging"
)

// FTPConfig holds the connection settings for a plain FTP host
type FTPConfig struct {
	Host    string
	Port    int
	Passive bool
	Timeout time.Duration
}

// FTPSession implements TransferSession over FTP
type FTPSession struct {
	config *FTPConfig
	conn   *ftp.ServerConn
}

// NewFTPSession creates an unconnected FTP session
func NewFTPSession(config *FTPConfig) *FTPSession {
	return &FTPSession{config: config}
}

func (s *FTPSession) addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}

// Connect dials the control connection. Data transfers always use passive mode.
func (s *FTPSession) Connect(ctx context.Context) error {
	if !s.config.Passive {
		logging.Warn("active FTP mode is not supported, using passive mode", zap.String("addr", s.addr()))
	}
	logging.Debug("connecting to FTP host", zap.String("addr", s.addr()))

	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if s.config.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(s.config.Timeout))
	}

	conn, err := ftp.Dial(s.addr(), opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.addr(), err)
	}
	s.conn = conn
	return nil
}

// Login authenticates with user and password
func (s *FTPSession) Login(ctx context.Context, creds Credentials) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	if err := s.conn.Login(creds.User, creds.Password); err != nil {
		return fmt.Errorf("FTP login failed: %w", err)
	}
	return nil
}

// ChangeDir changes the remote working directory
func (s *FTPSession) ChangeDir(ctx context.Context, dir string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	if dir == "" || dir == "." {
		return nil
	}
	if err := s.conn.ChangeDir(dir); err != nil {
		return fmt.Errorf("failed to change directory to %s: %w", dir, replyError(err))
	}
	return nil
}

// Put stores a local file, creating any missing parent directories
func (s *FTPSession) Put(ctx context.Context, localPath, remotePath string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	s.mkdirAll(path.Dir(remotePath))
	logging.Debug("uploading over FTP", zap.String("remote", remotePath))

	if err := s.conn.Stor(remotePath, localFile); err != nil {
		return fmt.Errorf("failed to store %s: %w", remotePath, replyError(err))
	}
	return nil
}

// mkdirAll creates dir component by component. Existing directories make
// MKD fail, so errors are only logged and Stor reports the real problem.
func (s *FTPSession) mkdirAll(dir string) {
	if dir == "" || dir == "." || dir == "/" {
		return
	}

	current := ""
	if strings.HasPrefix(dir, "/") {
		current = "/"
	}
	for _, component := range strings.Split(dir, "/") {
		if component == "" || component == "." {
			continue
		}
		current = path.Join(current, component)
		if err := s.conn.MakeDir(current); err != nil {
			logging.Debug("MKD failed", zap.String("dir", current), zap.Error(err))
		}
	}
}

// Delete removes a remote file
func (s *FTPSession) Delete(ctx context.Context, remotePath string) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}
	if err := s.conn.Delete(remotePath); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && tpErr.Code == ftp.StatusFileUnavailable {
			return fmt.Errorf("%w: %s", ErrNotExist, remotePath)
		}
		return fmt.Errorf("failed to delete %s: %w", remotePath, replyError(err))
	}
	return nil
}

// replyError exposes the server's reply code of a rejected command
func replyError(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		return &StatusError{StatusCode: tpErr.Code, Err: err}
	}
	return err
}

// Close quits the control connection
func (s *FTPSession) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Quit()
	s.conn = nil
	if err != nil {
		return fmt.Errorf("failed to quit FTP session: %w", err)
	}
	return nil
}
