// Package regional talks to the redirect-style domestic payment gateway: it
// builds signed checkout URLs and verifies the signed callbacks that come back.
package regional

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"court-booking/internal/domain/payment"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
)

// The gateway carries amounts multiplied by this factor on the wire.
const amountScale = 100

const successCode = "00"

const createDateLayout = "20060102150405"

// CallbackPayload is the typed view of a callback. The raw parameter map is
// kept only for the audit column.
type CallbackPayload struct {
	MerchantCode  string `validate:"required"`
	TxnRef        string `validate:"required,max=64"`
	Amount        string `validate:"required,numeric"`
	ResponseCode  string `validate:"required,len=2,numeric"`
	TransactionNo string `validate:"omitempty,max=64"`
	BankCode      string `validate:"omitempty,max=20"`
	PayDate       string `validate:"omitempty,len=14,numeric"`
}

func payloadFromParams(p map[string]string) CallbackPayload {
	return CallbackPayload{
		MerchantCode:  p["merchant_code"],
		TxnRef:        p["txn_ref"],
		Amount:        p["amount"],
		ResponseCode:  p["response_code"],
		TransactionNo: p["transaction_no"],
		BankCode:      p["bank_code"],
		PayDate:       p["pay_date"],
	}
}

type Gateway struct {
	cfg      config.RegionalConfig
	signer   *Signer
	validate *validator.Validate
}

func NewGateway(cfg config.RegionalConfig) (*Gateway, error) {
	if _, err := url.Parse(cfg.CheckoutURL); err != nil || cfg.CheckoutURL == "" {
		return nil, errs.Newf("invalid regional checkout url %q", cfg.CheckoutURL)
	}
	signer, err := NewSigner(cfg.SecretKey, cfg.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		cfg:      cfg,
		signer:   signer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

func (g *Gateway) Name() string {
	return payment.GatewayRegional
}

// CreateCheckout only builds a URL; the gateway is first contacted by the customer's browser.
func (g *Gateway) CreateCheckout(ctx context.Context, req shared.CheckoutRequest) (*shared.Checkout, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TransactionID == "" || req.Amount <= 0 {
		return nil, errs.Newf("invalid checkout request for %q", req.TransactionID)
	}

	params := map[string]string{
		"merchant_code": g.cfg.MerchantCode,
		"txn_ref":       req.TransactionID,
		"amount":        strconv.FormatInt(req.Amount*amountScale, 10),
		"currency":      strings.ToUpper(req.Currency),
		"order_info":    req.Description,
		"return_url":    g.cfg.ReturnURL,
		"locale":        g.cfg.Locale,
		"ip_addr":       req.ClientIP,
		"create_date":   req.CreatedAt.UTC().Format(createDateLayout),
	}
	if params["ip_addr"] == "" {
		params["ip_addr"] = "127.0.0.1"
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set(FieldSecureHashType, g.signer.Algorithm())
	values.Set(FieldSecureHash, g.signer.Sign(params))

	base, _ := url.Parse(g.cfg.CheckoutURL)
	base.RawQuery = values.Encode()

	return &shared.Checkout{RedirectURL: base.String()}, nil
}

// ParseCallback rejects anything whose signature does not match before
// looking at the fields, so a tampered amount never reaches the database.
func (g *Gateway) ParseCallback(ctx context.Context, cb shared.Callback) (*shared.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := cb.Params
	if len(params) == 0 && len(cb.Body) > 0 {
		if err := json.Unmarshal(cb.Body, &params); err != nil {
			return nil, errs.Mark(errs.Wrap(err, "decode regional callback body"), shared.ErrMalformedCallback)
		}
	}
	if len(params) == 0 {
		return nil, errs.Mark(errs.New("empty regional callback"), shared.ErrMalformedCallback)
	}

	signature := params[FieldSecureHash]
	if signature == "" {
		signature = cb.Signature
	}
	if signature == "" || !g.signer.Verify(params, signature) {
		return nil, errs.Mark(errs.Newf("signature mismatch for %q", params["txn_ref"]), shared.ErrInvalidSignature)
	}

	payload := payloadFromParams(params)
	if err := g.validate.Struct(payload); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "invalid regional callback"), shared.ErrMalformedCallback)
	}
	if payload.MerchantCode != g.cfg.MerchantCode {
		return nil, errs.Mark(errs.Newf("callback for merchant %q", payload.MerchantCode), shared.ErrMalformedCallback)
	}

	wire, err := strconv.ParseInt(payload.Amount, 10, 64)
	if err != nil || wire%amountScale != 0 {
		return nil, errs.Mark(errs.Newf("invalid amount %q", payload.Amount), shared.ErrMalformedCallback)
	}
	amount := wire / amountScale

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, errs.Wrap(err, "encode regional callback")
	}

	status := payment.StatusFailed
	if payload.ResponseCode == successCode {
		status = payment.StatusCompleted
	}

	return &shared.Outcome{
		TransactionID: payload.TxnRef,
		Status:        status,
		Amount:        &amount,
		Reference:     payload.TransactionNo,
		Raw:           raw,
	}, nil
}

// SignedCallback builds the parameters the gateway would send for a transaction.
func (g *Gateway) SignedCallback(txnRef string, amount int64, responseCode string) map[string]string {
	params := map[string]string{
		"merchant_code":  g.cfg.MerchantCode,
		"txn_ref":        txnRef,
		"amount":         strconv.FormatInt(amount*amountScale, 10),
		"response_code":  responseCode,
		"transaction_no": "RG" + txnRef,
	}
	params[FieldSecureHashType] = g.signer.Algorithm()
	params[FieldSecureHash] = g.signer.Sign(params)
	return params
}
