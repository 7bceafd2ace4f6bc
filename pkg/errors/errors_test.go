package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsAndCodes(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")

	tests := []struct {
		name     string
		err      error
		sentinel error
		kind     Kind
		code     int
	}{
		{"configuration", Configuration("AWS-S3", "bucketName"), ErrConfiguration, KindConfiguration, 400},
		{"unsupported", UnsupportedBackend("DROPBOX"), ErrUnsupportedBackend, KindUnsupportedBackend, 400},
		{"auth", Auth("token expired", nil), ErrAuth, KindAuth, 401},
		{"connectivity", Connectivity("no session", cause), ErrConnectivity, KindConnectivity, 503},
		{"transfer", Transfer(403, "access denied", nil), ErrTransfer, KindTransfer, 403},
		{"transfer without status", Transfer(0, "failed", nil), ErrTransfer, KindTransfer, 500},
		{"not found", NotFound("gone", nil), ErrNotFound, KindNotFound, 404},
		{"internal", Internal("boom", nil), ErrInternal, KindInternal, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("Expected errors.Is(%v, sentinel) to be true", tt.err)
			}
			if KindOf(tt.err) != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, KindOf(tt.err))
			}
			if CodeOf(tt.err) != tt.code {
				t.Errorf("Expected code %d, got %d", tt.code, CodeOf(tt.err))
			}
		})
	}
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	err := fmt.Errorf("upload: %w", NotFound("file not found", nil))

	if !errors.Is(err, ErrNotFound) {
		t.Error("Expected wrapped not-found error to match sentinel")
	}
	if errors.Is(err, ErrAuth) {
		t.Error("Did not expect not-found error to match auth sentinel")
	}
	if CodeOf(err) != 404 {
		t.Errorf("Expected code 404, got %d", CodeOf(err))
	}
}

func TestConfigurationErrorNamesField(t *testing.T) {
	err := Configuration("AWS-S3", "bucketName")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Expected *Error, got %T", err)
	}
	if e.Field != "bucketName" || e.Backend != "AWS-S3" {
		t.Errorf("Expected backend AWS-S3 and field bucketName, got %s/%s", e.Backend, e.Field)
	}
	if e.Error() != "AWS-S3: field bucketName is required" {
		t.Errorf("Unexpected message: %s", e.Error())
	}
}

func TestUnclassifiedErrors(t *testing.T) {
	err := fmt.Errorf("plain failure")
	if CodeOf(err) != 500 {
		t.Errorf("Expected 500 for unclassified error, got %d", CodeOf(err))
	}
	if KindOf(err) != KindInternal {
		t.Errorf("Expected internal kind, got %s", KindOf(err))
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Connectivity("failed to connect", fmt.Errorf("timeout"))
	if err.Error() != "failed to connect: timeout" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if errors.Unwrap(err) == nil {
		t.Error("Expected cause to be unwrappable")
	}
}
