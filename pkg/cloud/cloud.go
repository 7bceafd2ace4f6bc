// Package cloud is the entry point of the library. A Service validates a
// backend configuration once and then uploads and deletes files through the
// backend's strategy.
package cloud

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/logandonley/courier/pkg/account"
	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/logging"
	"github.com/logandonley/courier/pkg/response"
	"github.com/logandonley/courier/pkg/settings"
	"github.com/logandonley/courier/pkg/storage"
	"github.com/logandonley/courier/pkg/strategy"
)

// DefaultTimeout bounds connection setup for transfer sessions
const DefaultTimeout = 30 * time.Second

// Service owns the settings, account and strategy of one backend. It is not
// safe for concurrent use.
type Service struct {
	backend  account.Type
	account  account.Descriptor
	settings *settings.Settings
	strategy strategy.Strategy
	executor strategy.Executor
}

type options struct {
	settings      *settings.Settings
	logger        *zap.Logger
	objectStorage storage.ObjectStorage
	fileHosting   storage.FileHosting
	transfer      storage.TransferSession
	timeout       time.Duration
}

// Option configures a Service
type Option func(*options)

// WithSettings sets the operation settings
func WithSettings(s *settings.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithLogger sets the logger used by the lifecycle
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObjectStorage replaces the S3 or MinIO client
func WithObjectStorage(c storage.ObjectStorage) Option {
	return func(o *options) { o.objectStorage = c }
}

// WithFileHosting replaces the Drive client
func WithFileHosting(c storage.FileHosting) Option {
	return func(o *options) { o.fileHosting = c }
}

// WithTransferSession replaces the FTP or SFTP session
func WithTransferSession(s storage.TransferSession) Option {
	return func(o *options) { o.transfer = s }
}

// WithTimeout sets the connection timeout of transfer sessions
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New validates raw, builds the account and selects the strategy. Invalid
// configuration and unknown backends are returned as errors, so a Service
// is always fully initialized.
func New(t account.Type, raw map[string]any, opts ...Option) (*Service, error) {
	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.settings == nil {
		o.settings = settings.New(nil)
	}
	if o.logger == nil {
		o.logger = logging.L()
	}

	if err := account.Validate(t, raw); err != nil {
		return nil, err
	}

	acct, err := account.Assemble(t, raw)
	if err != nil {
		return nil, err
	}

	ports, err := buildPorts(acct, &o)
	if err != nil {
		return nil, err
	}

	strat, err := strategy.Assemble(t, acct, o.settings, ports)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("service ready",
		zap.String("backend", string(t)),
		zap.String("strategy", strat.Name()))

	return &Service{
		backend:  t,
		account:  acct,
		settings: o.settings,
		strategy: strat,
		executor: strategy.Executor{Logger: o.logger},
	}, nil
}

// buildPorts creates the SDK client for the account unless one was injected
func buildPorts(acct account.Descriptor, o *options) (strategy.Ports, error) {
	var ports strategy.Ports

	switch a := acct.(type) {
	case account.TransferAccount:
		ports.Transfer = o.transfer
		if ports.Transfer != nil {
			break
		}
		if a.Secure {
			ports.Transfer = storage.NewSFTPSession(&storage.SFTPConfig{
				Host:    a.Host,
				Port:    a.Port,
				Timeout: o.timeout,
			})
		} else {
			ports.Transfer = storage.NewFTPSession(&storage.FTPConfig{
				Host:    a.Host,
				Port:    a.Port,
				Passive: a.Passive,
				Timeout: o.timeout,
			})
		}

	case account.ObjectStoreAccount:
		ports.ObjectStorage = o.objectStorage
		if ports.ObjectStorage != nil {
			break
		}
		client, err := objectStorage(a)
		if err != nil {
			return ports, cerrors.Connectivity("failed to create object storage client", err)
		}
		ports.ObjectStorage = client

	case account.DriveAccount:
		ports.FileHosting = o.fileHosting
		if ports.FileHosting != nil {
			break
		}
		client, err := storage.NewDriveClient(&storage.DriveConfig{
			ClientID:     a.ClientID,
			ClientSecret: a.ClientSecret,
			AccessToken:  a.AccessToken,
			RefreshToken: a.RefreshToken,
		})
		if err != nil {
			return ports, cerrors.Connectivity("failed to create drive client", err)
		}
		ports.FileHosting = client

	default:
		return ports, cerrors.Internal(fmt.Sprintf("unknown account descriptor %T", acct), nil)
	}

	return ports, nil
}

func objectStorage(a account.ObjectStoreAccount) (storage.ObjectStorage, error) {
	if a.StorageType == account.StorageMinio {
		return storage.NewMinioStorage(&storage.MinioConfig{
			Endpoint:        a.Endpoint,
			Region:          a.Region,
			AccessKeyID:     a.Key,
			SecretAccessKey: a.SecretKey,
		})
	}
	return storage.NewS3Storage(context.Background(), &storage.S3Config{
		Endpoint:        a.Endpoint,
		Region:          a.Region,
		AccessKeyID:     a.Key,
		SecretAccessKey: a.SecretKey,
	})
}

// Upload sends src to the backend
func (s *Service) Upload(ctx context.Context, src *file.Source) response.Response {
	return s.executor.Upload(ctx, s.strategy, s.settings, src)
}

// Delete removes the remote file identified by target
func (s *Service) Delete(ctx context.Context, target file.Target) response.Response {
	return s.executor.Delete(ctx, s.strategy, target)
}

// Settings returns the operation settings. Changes apply to later calls.
func (s *Service) Settings() *settings.Settings {
	return s.settings
}

// Type returns the backend type
func (s *Service) Type() account.Type {
	return s.backend
}

// Account returns the validated account descriptor
func (s *Service) Account() account.Descriptor {
	return s.account
}

// Strategy returns the selected strategy
func (s *Service) Strategy() strategy.Strategy {
	return s.strategy
}
