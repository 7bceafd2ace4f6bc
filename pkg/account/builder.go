package account

import (
	"strings"

	cerrors "github.com/logandonley/courier/pkg/errors"
)

// TransferBuilder assembles a TransferAccount
type TransferBuilder struct {
	account TransferAccount
}

// NewTransferBuilder returns a builder with port 21, passive mode on and
// plain (non-SSH) transport
func NewTransferBuilder() *TransferBuilder {
	return &TransferBuilder{account: TransferAccount{
		Port:    DefaultPort,
		Passive: true,
	}}
}

func (b *TransferBuilder) UsingHost(host string) *TransferBuilder {
	b.account.Host = host
	return b
}

func (b *TransferBuilder) AtPort(port int) *TransferBuilder {
	b.account.Port = port
	return b
}

func (b *TransferBuilder) WithUser(user string) *TransferBuilder {
	b.account.User = user
	return b
}

func (b *TransferBuilder) WithPassword(password string) *TransferBuilder {
	b.account.Password = password
	return b
}

func (b *TransferBuilder) BeingPassive(passive bool) *TransferBuilder {
	b.account.Passive = passive
	return b
}

func (b *TransferBuilder) AtWorkDir(dir string) *TransferBuilder {
	b.account.WorkDir = dir
	return b
}

func (b *TransferBuilder) OnAccessURL(url string) *TransferBuilder {
	b.account.AccessURL = url
	return b
}

func (b *TransferBuilder) UsingSecureTransport(secure bool) *TransferBuilder {
	b.account.Secure = secure
	return b
}

func (b *TransferBuilder) WithKeyFile(path string) *TransferBuilder {
	b.account.KeyFile = path
	return b
}

func (b *TransferBuilder) Build() TransferAccount {
	return b.account
}

// ObjectStoreBuilder assembles an ObjectStoreAccount
type ObjectStoreBuilder struct {
	account ObjectStoreAccount
}

// NewObjectStoreBuilder returns a builder for a plain S3 account
func NewObjectStoreBuilder() *ObjectStoreBuilder {
	return &ObjectStoreBuilder{account: ObjectStoreAccount{StorageType: StorageS3}}
}

func (b *ObjectStoreBuilder) UsingKey(key string) *ObjectStoreBuilder {
	b.account.Key = key
	return b
}

func (b *ObjectStoreBuilder) UsingSecretKey(secret string) *ObjectStoreBuilder {
	b.account.SecretKey = secret
	return b
}

func (b *ObjectStoreBuilder) AtRegion(region string) *ObjectStoreBuilder {
	b.account.Region = region
	return b
}

func (b *ObjectStoreBuilder) InBucket(bucket string) *ObjectStoreBuilder {
	b.account.Bucket = bucket
	return b
}

// WithType sets the storage type tag. An empty tag keeps the S3 default.
func (b *ObjectStoreBuilder) WithType(storageType string) *ObjectStoreBuilder {
	if storageType != "" {
		b.account.StorageType = strings.ToUpper(storageType)
	}
	return b
}

func (b *ObjectStoreBuilder) AtEndpoint(endpoint string) *ObjectStoreBuilder {
	b.account.Endpoint = endpoint
	return b
}

func (b *ObjectStoreBuilder) Build() ObjectStoreAccount {
	return b.account
}

// DriveBuilder assembles a DriveAccount
type DriveBuilder struct {
	account DriveAccount
}

// NewDriveBuilder returns a builder targeting the drive root folder
func NewDriveBuilder() *DriveBuilder {
	return &DriveBuilder{account: DriveAccount{ProviderType: DefaultDriveProvider}}
}

func (b *DriveBuilder) UsingClientID(id string) *DriveBuilder {
	b.account.ClientID = id
	return b
}

func (b *DriveBuilder) UsingClientSecret(secret string) *DriveBuilder {
	b.account.ClientSecret = secret
	return b
}

func (b *DriveBuilder) UsingRefreshToken(token string) *DriveBuilder {
	b.account.RefreshToken = token
	return b
}

func (b *DriveBuilder) UsingAccessToken(token string) *DriveBuilder {
	b.account.AccessToken = token
	return b
}

func (b *DriveBuilder) InFolder(folderID string) *DriveBuilder {
	b.account.FolderID = folderID
	return b
}

// WithType sets the provider tag. An empty tag keeps the default.
func (b *DriveBuilder) WithType(providerType string) *DriveBuilder {
	if providerType != "" {
		b.account.ProviderType = providerType
	}
	return b
}

func (b *DriveBuilder) Build() DriveAccount {
	return b.account
}

// Assemble builds the descriptor for t from raw configuration. It does
// not validate; call Validate first.
func Assemble(t Type, raw Raw) (Descriptor, error) {
	switch t {
	case TypeFTP:
		return NewTransferBuilder().
			UsingHost(raw.String("", "host")).
			AtPort(raw.Int(DefaultPort, "port")).
			WithUser(raw.String("", "user")).
			WithPassword(raw.String("", "password")).
			BeingPassive(raw.Bool(true, "isPassive", "passive")).
			AtWorkDir(raw.String("", "dirWork", "workDir")).
			OnAccessURL(raw.String("", "urlAccess", "accessUrl", "urlAcess")).
			UsingSecureTransport(raw.Bool(false, "secureTransport", "useSSH")).
			WithKeyFile(raw.String("", "keyFile")).
			Build(), nil

	case TypeAWSS3:
		return NewObjectStoreBuilder().
			UsingKey(raw.String("", "key")).
			UsingSecretKey(raw.String("", "secretKey")).
			AtRegion(raw.String("", "region")).
			WithType(raw.String("", "type")).
			InBucket(raw.String("", "bucketName")).
			AtEndpoint(raw.String("", "endpoint")).
			Build(), nil

	case TypeGoogleDrive:
		return NewDriveBuilder().
			UsingClientID(raw.String("", "clientId")).
			UsingClientSecret(raw.String("", "clientSecret")).
			UsingRefreshToken(raw.String("", "refreshToken")).
			UsingAccessToken(raw.String("", "accessToken")).
			InFolder(raw.String("", "folderId")).
			WithType(raw.String("", "type")).
			Build(), nil

	default:
		return nil, cerrors.UnsupportedBackend(string(t))
	}
}
