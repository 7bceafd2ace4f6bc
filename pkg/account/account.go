// Package account validates raw backend configuration and assembles typed,
// backend-specific account descriptors from it.
package account

import (
	"strings"

	cerrors "github.com/logandonley/courier/pkg/errors"
)

// Type identifies a supported backend
type Type string

const (
	TypeFTP         Type = "FTP"
	TypeAWSS3       Type = "AWS-S3"
	TypeGoogleDrive Type = "GOOGLE-DRIVE"
)

// Types lists every supported backend type
var Types = []Type{TypeFTP, TypeAWSS3, TypeGoogleDrive}

var typeAliases = map[string]Type{
	"ftp":          TypeFTP,
	"aws-s3":       TypeAWSS3,
	"aws_s3":       TypeAWSS3,
	"s3":           TypeAWSS3,
	"google-drive": TypeGoogleDrive,
	"google_drive": TypeGoogleDrive,
	"gdrive":       TypeGoogleDrive,
	"drive":        TypeGoogleDrive,
}

// ParseType resolves a backend type name case-insensitively
func ParseType(name string) (Type, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return "", cerrors.UnsupportedBackend(name)
}

func (t Type) String() string {
	return string(t)
}

// Descriptor is a validated account for exactly one backend. The set of
// implementations is closed: TransferAccount, ObjectStoreAccount and
// DriveAccount.
type Descriptor interface {
	Type() Type
	descriptor()
}

// TransferAccount describes an FTP or SFTP host
type TransferAccount struct {
	Host      string
	Port      int
	User      string
	Password  string
	Passive   bool
	WorkDir   string
	AccessURL string
	Secure    bool
	KeyFile   string
}

func (TransferAccount) Type() Type { return TypeFTP }
func (TransferAccount) descriptor() {}

// ObjectStoreAccount describes an S3 bucket
type ObjectStoreAccount struct {
	Key       string
	SecretKey string
	Region    string
	Bucket    string
	// StorageType selects the client flavour: S3 or MINIO
	StorageType string
	Endpoint    string
}

func (ObjectStoreAccount) Type() Type { return TypeAWSS3 }
func (ObjectStoreAccount) descriptor() {}

// DriveAccount describes a Google Drive OAuth client
type DriveAccount struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
	FolderID     string
	ProviderType string
}

func (DriveAccount) Type() Type { return TypeGoogleDrive }
func (DriveAccount) descriptor() {}

// Object store flavours
const (
	StorageS3    = "S3"
	StorageMinio = "MINIO"
)

// DefaultDriveProvider is the provider tag applied when none is configured
const DefaultDriveProvider = "GOOGLE-DRIVE"

// DefaultPort is the transfer port applied when none is configured
const DefaultPort = 21
