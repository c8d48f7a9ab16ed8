package api

import (
	"io"
	"mime"
	"net/http"
	"net/url"

	resdto "court-booking/internal/handler/dto/response"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/commands"
	"court-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

const maxCallbackBody = 64 << 10

// Gateways put their signature in a header when they do not sign the parameters themselves.
var signatureHeaders = []string{"Stripe-Signature", "X-Signature"}

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(commands commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: commands}
}

// @Summary Payment callback
// @Description Gateway notification. Verified before any state change; replays are acknowledged without side effects.
// @Tags payments
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param gateway path string true "stripe or regional"
// @Success 200 {object} resdto.CallbackAck
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{gateway}/callback [post]
// @Router /payments/{gateway}/callback [get]
func (h *PaymentHandler) Callback(c *gin.Context) {
	cb, err := callbackFrom(c.Request)
	if err != nil {
		abortBadRequest(c, err, "Unreadable callback payload")
		return
	}

	result, err := h.commands.Reconcile(c.Request.Context(), commands.ReconcileInput{
		Gateway:  c.Param("gateway"),
		Callback: cb,
	})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewCallbackAck(result.Replayed))
}

// callbackFrom flattens query and form parameters to their first value and keeps the raw body
// for gateways that sign it as a whole.
func callbackFrom(r *http.Request) (shared.Callback, error) {
	cb := shared.Callback{Params: flatten(r.URL.Query())}

	if r.Body != nil && r.Method != http.MethodGet {
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxCallbackBody))
		if err != nil {
			return shared.Callback{}, errs.Wrap(err, "read callback body")
		}
		cb.Body = body

		if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/x-www-form-urlencoded" {
			form, err := url.ParseQuery(string(body))
			if err != nil {
				return shared.Callback{}, errs.Wrap(err, "parse callback form")
			}
			for k, v := range flatten(form) {
				cb.Params[k] = v
			}
		}
	}

	for _, h := range signatureHeaders {
		if sig := r.Header.Get(h); sig != "" {
			cb.Signature = sig
			break
		}
	}
	return cb, nil
}

func flatten(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
