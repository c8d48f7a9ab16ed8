package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"text/template"
	"time"

	"court-booking/internal/domain/slot"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/usecase/shared"
)

const emailTypeConfirmation = "booking_confirmation"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`Your booking is confirmed.

Court:    {{.CourtName}}
Date:     {{.Date}}
Time:     {{.Start}} - {{.End}}
Players:  {{.PlayerCount}}
Amount:   {{.Amount}} {{.Currency}}
Booking:  {{.BookingID}}
{{- if .TransactionID}}
Payment:  {{.TransactionID}}
{{- end}}

See you on court!
`))

type confirmationView struct {
	CourtName     string
	Date          string
	Start         string
	End           string
	PlayerCount   int
	Amount        string
	Currency      string
	BookingID     string
	TransactionID string
}

// ConfirmationNotifier sends confirmation mail in the background. The caller
// never waits for delivery and never sees a delivery error.
type ConfirmationNotifier struct {
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Recorder
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewConfirmationNotifier(sender Sender, logger *slog.Logger, rec *metrics.Recorder, timeout time.Duration) *ConfirmationNotifier {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ConfirmationNotifier{
		sender:  sender,
		logger:  logger,
		metrics: rec,
		timeout: timeout,
	}
}

func (n *ConfirmationNotifier) BookingConfirmed(ctx context.Context, c shared.BookingConfirmation) {
	if c.CustomerEmail == "" {
		n.logger.Warn("confirmation skipped, no recipient", "booking_id", c.BookingID.String())
		n.metrics.RecordEmail(emailTypeConfirmation, "skipped")
		return
	}

	msg, err := renderConfirmation(c)
	if err != nil {
		n.logger.Error("failed to render confirmation", "booking_id", c.BookingID.String(), "error", err.Error())
		n.metrics.RecordEmail(emailTypeConfirmation, "failed")
		return
	}

	// Detached from the request so a finished response does not abort delivery.
	sendCtx := context.WithoutCancel(ctx)

	n.wg.Add(1)
	n.metrics.EmailStarted()
	go func() {
		defer n.wg.Done()
		defer n.metrics.EmailFinished()

		ctx, cancel := context.WithTimeout(sendCtx, n.timeout)
		defer cancel()

		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error("failed to send booking confirmation",
				"booking_id", c.BookingID.String(),
				"to", c.CustomerEmail,
				"error", err.Error())
			n.metrics.RecordEmail(emailTypeConfirmation, "failed")
			return
		}
		n.logger.Info("booking confirmation sent", "booking_id", c.BookingID.String(), "to", c.CustomerEmail)
		n.metrics.RecordEmail(emailTypeConfirmation, "sent")
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (n *ConfirmationNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func renderConfirmation(c shared.BookingConfirmation) (Message, error) {
	view := confirmationView{
		CourtName:     c.CourtName,
		Date:          slot.FormatDate(c.Date),
		Start:         c.Start,
		End:           c.End,
		PlayerCount:   c.PlayerCount,
		Amount:        formatAmount(c.TotalPrice),
		Currency:      strings.ToUpper(c.Currency),
		BookingID:     c.BookingID.String(),
		TransactionID: c.TransactionID,
	}
	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, view); err != nil {
		return Message{}, err
	}
	return Message{
		To:      c.CustomerEmail,
		Subject: "Booking confirmed: " + c.CourtName + " on " + view.Date + " " + c.Start,
		Body:    body.String(),
	}, nil
}

// formatAmount groups thousands: 1200000 -> 1,200,000.
func formatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
