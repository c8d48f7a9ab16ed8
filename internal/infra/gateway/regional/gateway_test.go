//go:build unit

package regional_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"court-booking/internal/domain/payment"
	"court-booking/internal/infra/gateway/regional"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type GatewayTestSuite struct {
	suite.Suite
	cfg config.RegionalConfig
	gw  *regional.Gateway
	ctx context.Context
}

func TestGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}

func (s *GatewayTestSuite) SetupTest() {
	s.cfg = config.NewTestConfig().Regional
	gw, err := regional.NewGateway(s.cfg)
	s.Require().NoError(err)
	s.gw = gw
	s.ctx = context.Background()
}

func (s *GatewayTestSuite) TestCreateCheckout_SignedRedirect() {
	checkout, err := s.gw.CreateCheckout(s.ctx, shared.CheckoutRequest{
		TransactionID: "20240530120000abcdef012345",
		BookingID:     uuid.New(),
		Amount:        120000,
		Currency:      "vnd",
		Description:   "Court A 2024-06-01 09:00-10:00",
		ClientIP:      "10.0.0.1",
		CreatedAt:     time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)

	u, err := url.Parse(checkout.RedirectURL)
	s.Require().NoError(err)
	q := u.Query()

	s.Equal("sandbox.regional-pay.example", u.Host)
	s.Equal("12000000", q.Get("amount"))
	s.Equal("VND", q.Get("currency"))
	s.Equal("20240530120000", q.Get("create_date"))
	s.Equal("sha512", q.Get(regional.FieldSecureHashType))

	params := map[string]string{}
	for k := range q {
		params[k] = q.Get(k)
	}
	signer, err := regional.NewSigner(s.cfg.SecretKey, s.cfg.HashAlgorithm)
	s.Require().NoError(err)
	s.True(signer.Verify(params, q.Get(regional.FieldSecureHash)))
}

func (s *GatewayTestSuite) TestCreateCheckout_RejectsZeroAmount() {
	_, err := s.gw.CreateCheckout(s.ctx, shared.CheckoutRequest{TransactionID: "T", Amount: 0})
	s.Error(err)
}

func (s *GatewayTestSuite) TestParseCallback_Success() {
	params := s.gw.SignedCallback("TXN1", 120000, "00")

	out, err := s.gw.ParseCallback(s.ctx, shared.Callback{Params: params})
	s.Require().NoError(err)

	s.Equal("TXN1", out.TransactionID)
	s.Equal(payment.StatusCompleted, out.Status)
	s.Require().NotNil(out.Amount)
	s.Equal(int64(120000), *out.Amount)
	s.Equal("RGTXN1", out.Reference)
	s.False(out.Ignored)

	var raw map[string]string
	s.Require().NoError(json.Unmarshal(out.Raw, &raw))
	s.Equal(params, raw)
}

func (s *GatewayTestSuite) TestParseCallback_FailureCode() {
	params := s.gw.SignedCallback("TXN1", 120000, "24")

	out, err := s.gw.ParseCallback(s.ctx, shared.Callback{Params: params})
	s.Require().NoError(err)
	s.Equal(payment.StatusFailed, out.Status)
}

func (s *GatewayTestSuite) TestParseCallback_FlatJSONBody() {
	body, err := json.Marshal(s.gw.SignedCallback("TXN2", 5000, "00"))
	s.Require().NoError(err)

	out, err := s.gw.ParseCallback(s.ctx, shared.Callback{Body: body})
	s.Require().NoError(err)
	s.Equal("TXN2", out.TransactionID)
}

func (s *GatewayTestSuite) TestParseCallback_Tampered() {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"amount altered", "amount", "100"},
		{"status flipped", "response_code", "00"},
		{"transaction swapped", "txn_ref", "OTHER"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			params := s.gw.SignedCallback("TXN1", 120000, "51")
			params[tt.field] = tt.value

			_, err := s.gw.ParseCallback(s.ctx, shared.Callback{Params: params})
			s.Require().Error(err)
			s.True(errs.Is(err, shared.ErrInvalidSignature))
		})
	}
}

func (s *GatewayTestSuite) TestParseCallback_MissingSignature() {
	params := s.gw.SignedCallback("TXN1", 120000, "00")
	delete(params, regional.FieldSecureHash)

	_, err := s.gw.ParseCallback(s.ctx, shared.Callback{Params: params})
	s.True(errs.Is(err, shared.ErrInvalidSignature))
}

func (s *GatewayTestSuite) TestParseCallback_SignedButMalformed() {
	signer, err := regional.NewSigner(s.cfg.SecretKey, s.cfg.HashAlgorithm)
	s.Require().NoError(err)

	params := map[string]string{
		"merchant_code": s.cfg.MerchantCode,
		"txn_ref":       "TXN1",
		"amount":        "12.5",
		"response_code": "00",
	}
	params[regional.FieldSecureHash] = signer.Sign(params)

	_, err = s.gw.ParseCallback(s.ctx, shared.Callback{Params: params})
	s.Require().Error(err)
	s.True(errs.Is(err, shared.ErrMalformedCallback))
}

func (s *GatewayTestSuite) TestParseCallback_Empty() {
	_, err := s.gw.ParseCallback(s.ctx, shared.Callback{})
	s.True(errs.Is(err, shared.ErrMalformedCallback))
}

func TestNewGateway_InvalidAlgorithm(t *testing.T) {
	cfg := config.NewTestConfig().Regional
	cfg.HashAlgorithm = "crc32"

	_, err := regional.NewGateway(cfg)
	require.Error(t, err)
	assert.True(t, errs.Is(err, regional.ErrUnsupportedAlgorithm))
}
