// Package kyc implements the mock BVN identity provider: the provider
// itself, the HTTP handler serving it and the client the API server uses to
// call it.
package kyc

import (
	"context"
	"errors"
)

// MessageBVNNotFound is the message returned for unknown BVNs.
const MessageBVNNotFound = "BVN not found"

var (
	ErrBVNNotFound = errors.New("bvn not found")
	ErrUnavailable = errors.New("identity provider unavailable")
)

// Details is the identity record held for a BVN. Optional fields are empty
// when the provider does not return them.
type Details struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	DateOfBirth        string `json:"dateOfBirth,omitempty"`
	Gender             string `json:"gender,omitempty"`
	Photo              string `json:"photo,omitempty"`
	VerificationStatus string `json:"verificationStatus"`
}

type Provider interface {
	// VerifyBVN returns ErrBVNNotFound for unknown numbers.
	VerifyBVN(ctx context.Context, bvn string) (*Details, error)
}
