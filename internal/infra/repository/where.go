package repository

import (
	"strconv"
	"strings"

	"court-booking/internal/domain/booking"
	"court-booking/internal/pkg/pgconv"
)

// whereBuilder collects predicates and their arguments. Every value is bound
// through a numbered placeholder; callers only supply column expressions.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a predicate whose single "?" is replaced by the next placeholder.
func (w *whereBuilder) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.Replace(expr, "?", "$"+strconv.Itoa(len(w.args)), 1))
}

// bind appends a bare argument (LIMIT, OFFSET) and returns its placeholder.
func (w *whereBuilder) bind(arg any) string {
	w.args = append(w.args, arg)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *whereBuilder) arguments() []any {
	return append([]any(nil), w.args...)
}

func bookingFilterWhere(f booking.Filter) *whereBuilder {
	w := &whereBuilder{}
	if f.CustomerID != nil {
		w.add("customer_id = ?", *f.CustomerID)
	}
	if f.OwnerID != nil {
		w.add("owner_id = ?", *f.OwnerID)
	}
	if f.CourtID != nil {
		w.add("court_id = ?", *f.CourtID)
	}
	if f.Status != nil {
		w.add("status = ?", f.Status.String())
	}
	if f.DateFrom != nil {
		w.add("booking_date >= ?", pgconv.DateToPgtype(*f.DateFrom))
	}
	if f.DateTo != nil {
		w.add("booking_date <= ?", pgconv.DateToPgtype(*f.DateTo))
	}
	return w
}
