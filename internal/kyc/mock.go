package kyc

import (
	"context"

	"github.com/flexrent/flexrent/internal/logging"
)

// Known BVNs of the mock provider.
const (
	BVNMatching   = "12345678901"
	BVNMismatched = "99999999999"
)

// MockProvider stands in for a real BVN lookup API with two fixed records.
type MockProvider struct {
	log logging.Logger
}

func NewMockProvider(log logging.Logger) *MockProvider {
	return &MockProvider{log: log.With("module", "kyc-mock")}
}

func (p *MockProvider) VerifyBVN(ctx context.Context, bvn string) (*Details, error) {
	p.log.Info(ctx, "verifying bvn", "bvn", MaskBVN(bvn))

	switch bvn {
	case BVNMatching:
		return &Details{
			FirstName:          "BRYAN",
			LastName:           "SOMTO",
			DateOfBirth:        "1997-05-12",
			Gender:             "Male",
			Photo:              "https://via.placeholder.com/150",
			VerificationStatus: "VERIFIED",
		}, nil
	case BVNMismatched:
		return &Details{
			FirstName:          "UNKNOWN",
			LastName:           "PERSON",
			VerificationStatus: "VERIFIED",
		}, nil
	default:
		return nil, ErrBVNNotFound
	}
}

// MaskBVN keeps the last four digits.
func MaskBVN(bvn string) string {
	if len(bvn) <= 4 {
		return bvn
	}
	masked := make([]byte, len(bvn))
	for i := range masked {
		if i < len(bvn)-4 {
			masked[i] = '*'
		} else {
			masked[i] = bvn[i]
		}
	}
	return string(masked)
}
