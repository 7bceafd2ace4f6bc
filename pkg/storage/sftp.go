package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/logandonley/courier/pkg/logging"
)

// SFTPConfig holds the connection settings for an SSH file transfer host
type SFTPConfig struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// SFTPSession implements TransferSession over SSH
type SFTPSession struct {
	config     *SFTPConfig
	conn       net.Conn
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	workDir    string
}

// NewSFTPSession creates an unconnected SFTP session
func NewSFTPSession(config *SFTPConfig) *SFTPSession {
	return &SFTPSession{config: config}
}

func (s *SFTPSession) addr() string {
	return net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
}

// Connect opens the TCP connection. The SSH handshake happens in Login
// because it needs the credentials.
func (s *SFTPSession) Connect(ctx context.Context) error {
	logging.Debug("connecting to SFTP host", zap.String("addr", s.addr()))

	dialer := &net.Dialer{Timeout: s.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.addr(), err)
	}
	s.conn = conn
	return nil
}

// Login performs the SSH handshake and opens the SFTP subsystem
func (s *SFTPSession) Login(ctx context.Context, creds Credentials) error {
	if s.conn == nil {
		return fmt.Errorf("not connected")
	}

	auth, err := authMethods(creds)
	if err != nil {
		return err
	}

	sshConfig := &ssh.ClientConfig{
		User:            creds.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: verify host keys against known_hosts
		Timeout:         s.config.Timeout,
	}

	c, chans, reqs, err := ssh.NewClientConn(s.conn, s.addr(), sshConfig)
	if err != nil {
		return fmt.Errorf("SSH handshake failed: %w", err)
	}
	s.sshClient = ssh.NewClient(c, chans, reqs)

	sftpClient, err := sftp.NewClient(s.sshClient)
	if err != nil {
		return fmt.Errorf("failed to create SFTP client: %w", err)
	}
	s.sftpClient = sftpClient

	if pwd, err := sftpClient.Getwd(); err == nil {
		logging.Debug("initial working directory", zap.String("pwd", pwd))
	}
	return nil
}

// authMethods prefers the private key when one is configured. The password
// then serves as the key passphrase when the key is encrypted.
func authMethods(creds Credentials) ([]ssh.AuthMethod, error) {
	if creds.KeyFile == "" {
		return []ssh.AuthMethod{ssh.Password(creds.Password)}, nil
	}

	keyFile, err := expandHome(creds.KeyFile)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key file %s: %w", keyFile, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	var missing *ssh.PassphraseMissingError
	if errors.As(err, &missing) && creds.Password != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(creds.Password))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH key: %w", err)
	}

	return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, p[2:]), nil
}

// ChangeDir sets the base directory, creating it when missing
func (s *SFTPSession) ChangeDir(ctx context.Context, dir string) error {
	if s.sftpClient == nil {
		return fmt.Errorf("not logged in")
	}
	dir = strings.TrimPrefix(dir, "./")
	if dir == "" || dir == "." {
		return nil
	}

	info, err := s.sftpClient.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%s is not a directory", dir)
	case err != nil && errors.Is(err, os.ErrNotExist):
		if err := s.sftpClient.MkdirAll(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	case err != nil:
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	s.workDir = dir
	return nil
}

// Put uploads a local file. Missing parent directories are created.
func (s *SFTPSession) Put(ctx context.Context, localPath, remotePath string) error {
	if s.sftpClient == nil {
		return fmt.Errorf("not logged in")
	}

	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	remote := s.resolve(remotePath)
	if dir := path.Dir(remote); dir != "." && dir != "/" {
		if err := s.sftpClient.MkdirAll(dir); err != nil {
			return fmt.Errorf("failed to create remote directory: %w", err)
		}
	}
	logging.Debug("uploading over SFTP", zap.String("remote", remote))

	remoteFile, err := s.sftpClient.Create(remote)
	if err != nil {
		return fmt.Errorf("failed to create remote file: %w", err)
	}
	defer remoteFile.Close()

	if _, err := io.Copy(remoteFile, localFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return nil
}

// Delete removes a remote file
func (s *SFTPSession) Delete(ctx context.Context, remotePath string) error {
	if s.sftpClient == nil {
		return fmt.Errorf("not logged in")
	}

	remote := s.resolve(remotePath)
	if err := s.sftpClient.Remove(remote); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotExist, remote)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve joins relative paths onto the working directory
func (s *SFTPSession) resolve(remotePath string) string {
	if strings.HasPrefix(remotePath, "/") || s.workDir == "" {
		return remotePath
	}
	return path.Join(s.workDir, remotePath)
}

// Close closes the SFTP and SSH connections
func (s *SFTPSession) Close() error {
	var errs []error
	if s.sftpClient != nil {
		if err := s.sftpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close SFTP client: %w", err))
		}
		s.sftpClient = nil
	}
	if s.sshClient != nil {
		if err := s.sshClient.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close SSH client: %w", err))
		}
		s.sshClient = nil
	} else if s.conn != nil {
		_ = s.conn.Close()
	}
	s.conn = nil
	s.workDir = ""
	return errors.Join(errs...)
}
