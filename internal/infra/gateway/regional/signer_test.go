//go:build unit

package regional_test

import (
	"strings"
	"testing"

	"court-booking/internal/infra/gateway/regional"
	"court-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	params := map[string]string{
		"txn_ref":                    "T1",
		"amount":                     "1000",
		"merchant_code":              "M",
		regional.FieldSecureHash:     "deadbeef",
		regional.FieldSecureHashType: "sha512",
	}

	assert.Equal(t, "amount=1000&merchant_code=M&txn_ref=T1", regional.Canonical(params))
}

func TestSigner_RoundTrip(t *testing.T) {
	params := map[string]string{"txn_ref": "T1", "amount": "12000000", "response_code": "00"}

	for _, algo := range []string{regional.AlgorithmSHA256, regional.AlgorithmSHA512, regional.AlgorithmSHA3_256} {
		t.Run(algo, func(t *testing.T) {
			s, err := regional.NewSigner("secret", algo)
			require.NoError(t, err)

			sig := s.Sign(params)
			assert.True(t, s.Verify(params, sig))
			assert.True(t, s.Verify(params, strings.ToUpper(sig)), "hex case is not significant")

			tampered := map[string]string{"txn_ref": "T1", "amount": "99000000", "response_code": "00"}
			assert.False(t, s.Verify(tampered, sig))

			other, err := regional.NewSigner("other-secret", algo)
			require.NoError(t, err)
			assert.False(t, other.Verify(params, sig))
		})
	}
}

func TestSigner_DigestLengths(t *testing.T) {
	params := map[string]string{"a": "1"}
	tests := []struct {
		algo   string
		hexLen int
	}{
		{regional.AlgorithmSHA256, 64},
		{regional.AlgorithmSHA512, 128},
		{regional.AlgorithmSHA3_256, 64},
		{"", 128},
	}
	for _, tt := range tests {
		s, err := regional.NewSigner("k", tt.algo)
		require.NoError(t, err)
		assert.Len(t, s.Sign(params), tt.hexLen, tt.algo)
	}
}

func TestSigner_RejectsGarbage(t *testing.T) {
	s, err := regional.NewSigner("k", "sha256")
	require.NoError(t, err)

	assert.False(t, s.Verify(map[string]string{"a": "1"}, ""))
	assert.False(t, s.Verify(map[string]string{"a": "1"}, "zz-not-hex"))
}

func TestNewSigner_UnknownAlgorithm(t *testing.T) {
	_, err := regional.NewSigner("k", "md5")
	require.Error(t, err)
	assert.True(t, errs.Is(err, regional.ErrUnsupportedAlgorithm))
}
