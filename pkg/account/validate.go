package account

import (
	cerrors "github.com/logandonley/courier/pkg/errors"
)

// Validator checks raw configuration before any account is built
type Validator interface {
	Validate(raw Raw) error
}

// requiredFields lists, per backend, the keys that must be present and
// non-empty. Order matters: the first failing key is reported.
var requiredFields = map[Type][]string{
	TypeFTP:         {"host", "port", "user", "password"},
	TypeAWSS3:       {"key", "secretKey", "region", "bucketName"},
	TypeGoogleDrive: {"clientId", "clientSecret"},
}

// RequiredFields returns the required keys for a backend in check order
func RequiredFields(t Type) []string {
	fields := requiredFields[t]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

type fieldValidator struct {
	backend Type
	fields  []string
}

func (v fieldValidator) Validate(raw Raw) error {
	for _, field := range v.fields {
		if raw.Empty(field) {
			return cerrors.Configuration(string(v.backend), field)
		}
	}
	return nil
}

type driveValidator struct {
	fieldValidator
}

func (v driveValidator) Validate(raw Raw) error {
	if err := v.fieldValidator.Validate(raw); err != nil {
		return err
	}
	if raw.Empty("accessToken") && raw.Empty("refreshToken") {
		return cerrors.Configurationf(string(v.backend), "at least one of accessToken or refreshToken is required")
	}
	return nil
}

// ValidatorFor returns the validator for a backend type
func ValidatorFor(t Type) (Validator, error) {
	base := fieldValidator{backend: t, fields: requiredFields[t]}
	switch t {
	case TypeFTP, TypeAWSS3:
		return base, nil
	case TypeGoogleDrive:
		return driveValidator{base}, nil
	default:
		return nil, cerrors.UnsupportedBackend(string(t))
	}
}

// Validate runs the validator for t against raw
func Validate(t Type, raw Raw) error {
	v, err := ValidatorFor(t)
	if err != nil {
		return err
	}
	return v.Validate(raw)
}
