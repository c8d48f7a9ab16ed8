package regional

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"sort"
	"strings"

	"court-booking/internal/pkg/errs"

	"golang.org/x/crypto/sha3"
)

const (
	FieldSecureHash     = "secure_hash"
	FieldSecureHashType = "secure_hash_type"
)

const (
	AlgorithmSHA256   = "sha256"
	AlgorithmSHA512   = "sha512"
	AlgorithmSHA3_256 = "sha3-256"
)

var ErrUnsupportedAlgorithm = errs.New("unsupported hash algorithm")

// Signer computes the HMAC over the canonical form of a flat parameter set.
type Signer struct {
	secret    []byte
	algorithm string
	newHash   func() hash.Hash
}

func NewSigner(secret, algorithm string) (*Signer, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	var h func() hash.Hash
	switch algorithm {
	case AlgorithmSHA256:
		h = sha256.New
	case AlgorithmSHA512, "":
		algorithm = AlgorithmSHA512
		h = sha512.New
	case AlgorithmSHA3_256:
		h = sha3.New256
	default:
		return nil, errs.Wrapf(ErrUnsupportedAlgorithm, "%q", algorithm)
	}
	return &Signer{secret: []byte(secret), algorithm: algorithm, newHash: h}, nil
}

func (s *Signer) Algorithm() string {
	return s.algorithm
}

// Sign returns the lowercase hex digest of the canonical string.
func (s *Signer) Sign(params map[string]string) string {
	mac := hmac.New(s.newHash, s.secret)
	mac.Write([]byte(Canonical(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify compares in constant time; hex case is not significant.
func (s *Signer) Verify(params map[string]string, signature string) bool {
	got, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(signature)))
	if err != nil || len(got) == 0 {
		return false
	}
	want, _ := hex.DecodeString(s.Sign(params))
	return hmac.Equal(got, want)
}

// Canonical sorts field names and joins key=value pairs with "&".
// The signature fields themselves never take part.
func Canonical(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == FieldSecureHash || k == FieldSecureHashType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
