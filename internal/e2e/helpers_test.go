//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/google/uuid"
)

func jsonUnmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

func encode(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}

func (s *SharedSuite) bookingStatus(id uuid.UUID) string {
	var status string
	err := s.DB.QueryRow(context.Background(), `SELECT status FROM bookings WHERE id = $1`, id).Scan(&status)
	s.Require().NoError(err)
	return status
}

func (s *SharedSuite) paymentStatus(txn string) string {
	var status string
	err := s.DB.QueryRow(context.Background(), `SELECT status FROM payments WHERE transaction_id = $1`, txn).Scan(&status)
	s.Require().NoError(err)
	return status
}

func (s *SharedSuite) paymentSettledAt(txn string) *time.Time {
	var at *time.Time
	err := s.DB.QueryRow(context.Background(), `SELECT settled_at FROM payments WHERE transaction_id = $1`, txn).Scan(&at)
	s.Require().NoError(err)
	return at
}
