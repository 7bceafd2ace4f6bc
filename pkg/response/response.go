// Package response holds the three uniform result shapes returned by every
// backend.
package response

import (
	"encoding/json"
	"fmt"
)

// Kind tags which of the three response shapes a Response holds
type Kind int

const (
	KindSuccess Kind = iota + 1
	KindDeleteSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindDeleteSuccess:
		return "delete_success"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Response is the only value returned by upload and delete. It is immutable
// once constructed.
type Response struct {
	kind        Kind
	code        int
	resourceURL string
	message     string
}

// Success is returned by a completed upload
func Success(code int, resourceURL string) Response {
	return Response{kind: KindSuccess, code: code, resourceURL: resourceURL}
}

// DeleteSuccess is returned by a completed delete
func DeleteSuccess(code int, message string) Response {
	return Response{kind: KindDeleteSuccess, code: code, message: message}
}

// Error is returned by any failed operation
func Error(code int, message string) Response {
	return Response{kind: KindError, code: code, message: message}
}

func (r Response) Kind() Kind          { return r.kind }
func (r Response) Code() int           { return r.code }
func (r Response) ResourceURL() string { return r.resourceURL }
func (r Response) Message() string     { return r.message }

// OK reports whether the response is one of the success shapes
func (r Response) OK() bool {
	return r.kind == KindSuccess || r.kind == KindDeleteSuccess
}

func (r Response) String() string {
	switch r.kind {
	case KindSuccess:
		return fmt.Sprintf("success (%d): %s", r.code, r.resourceURL)
	case KindDeleteSuccess:
		return fmt.Sprintf("deleted (%d): %s", r.code, r.message)
	default:
		return fmt.Sprintf("error (%d): %s", r.code, r.message)
	}
}

type wire struct {
	Status      string `json:"status"`
	Code        int    `json:"code"`
	ResourceURL string `json:"resource_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// MarshalJSON encodes the response for CLI output
func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{
		Status:      r.kind.String(),
		Code:        r.code,
		ResourceURL: r.resourceURL,
		Message:     r.message,
	})
}
