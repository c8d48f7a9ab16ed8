//go:build unit || e2e

// Package sharedtest provides an in-memory UnitOfWork whose repositories honour the
// same conditional-update and uniqueness rules as the PostgreSQL schema.
package sharedtest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"court-booking/internal/domain/booking"
	"court-booking/internal/domain/court"
	"court-booking/internal/domain/payment"
	"court-booking/internal/domain/slot"
	"court-booking/internal/infra"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type slotKey struct {
	courtID uuid.UUID
	date    string
	start   slot.TimeOfDay
}

type state struct {
	clubs    map[uuid.UUID]uuid.UUID
	courts   map[uuid.UUID]*court.Court
	slots    map[uuid.UUID]*slot.TimeSlot
	slotKeys map[slotKey]uuid.UUID
	bookings map[uuid.UUID]*booking.Booking
	payments map[string]*payment.Payment
}

func (s state) clone() state {
	return state{
		clubs:    cloneMap(s.clubs),
		courts:   cloneMap(s.courts),
		slots:    cloneMap(s.slots),
		slotKeys: cloneMap(s.slotKeys),
		bookings: cloneMap(s.bookings),
		payments: cloneMap(s.payments),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is the fake database. Transactions are fully serialized and roll back on error.
type Store struct {
	mu    sync.Mutex
	state state

	// Fail injects an error into the named operation, e.g. "payments.Create".
	Fail map[string]error

	// SlotInserts counts rows actually written by InsertIfAbsent.
	SlotInserts int
	Commits     int
}

func NewStore() *Store {
	return &Store{
		state: state{
			clubs:    map[uuid.UUID]uuid.UUID{},
			courts:   map[uuid.UUID]*court.Court{},
			slots:    map[uuid.UUID]*slot.TimeSlot{},
			slotKeys: map[slotKey]uuid.UUID{},
			bookings: map[uuid.UUID]*booking.Booking{},
			payments: map[string]*payment.Payment{},
		},
		Fail: map[string]error{},
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	inserts := s.SlotInserts
	if err := fn(ctx, &fakeTx{s: s}); err != nil {
		s.state = snapshot
		s.SlotInserts = inserts
		return err
	}
	s.Commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &fakeTx{s: s})
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return s.WithinReadOnly(ctx, fn)
}

// Seed helpers bypass the repositories.

func (s *Store) AddClub(clubID, ownerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.clubs[clubID] = ownerID
}

func (s *Store) AddCourt(c *court.Court) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.clubs[c.ClubID()] = c.OwnerID()
	s.state.courts[c.ID()] = c
}

func (s *Store) AddSlot(ts *slot.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.slots[ts.ID()] = ts
	s.state.slotKeys[keyOf(ts)] = ts.ID()
}

func (s *Store) AddBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.bookings[b.ID()] = b
}

func (s *Store) AddPayment(p *payment.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.payments[p.TransactionID()] = p
}

func (s *Store) Slot(id uuid.UUID) *slot.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.slots[id]
}

func (s *Store) Court(id uuid.UUID) *court.Court {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.courts[id]
}

func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.bookings[id]
}

func (s *Store) Payment(transactionID string) *payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.payments[transactionID]
}

func (s *Store) Bookings() []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*booking.Booking, 0, len(s.state.bookings))
	for _, b := range s.state.bookings {
		out = append(out, b)
	}
	return out
}

func (s *Store) Payments() []*payment.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*payment.Payment, 0, len(s.state.payments))
	for _, p := range s.state.payments {
		out = append(out, p)
	}
	return out
}

func (s *Store) SlotsFor(courtID uuid.UUID, date time.Time) []*slot.TimeSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotsFor(courtID, date)
}

func (s *Store) slotsFor(courtID uuid.UUID, date time.Time) []*slot.TimeSlot {
	var out []*slot.TimeSlot
	for _, ts := range s.state.slots {
		if ts.CourtID() == courtID && slot.FormatDate(ts.Date()) == slot.FormatDate(date) {
			out = append(out, ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start() < out[j].Start() })
	return out
}

func (s *Store) fail(op string) error {
	return s.Fail[op]
}

func keyOf(ts *slot.TimeSlot) slotKey {
	return slotKey{courtID: ts.CourtID(), date: slot.FormatDate(ts.Date()), start: ts.Start()}
}

func notFound(msg string) error {
	return infra.NewRepoErr(infra.KindNotFound, msg)
}

func duplicate(msg string) error {
	return infra.NewRepoErr(infra.KindDuplicateKey, msg)
}

type fakeTx struct {
	s *Store
}

func (t *fakeTx) Courts() shared.CourtRepository     { return courtRepo{t.s} }
func (t *fakeTx) Slots() shared.SlotRepository       { return slotRepo{t.s} }
func (t *fakeTx) Bookings() shared.BookingRepository { return bookingRepo{t.s} }
func (t *fakeTx) Payments() shared.PaymentRepository { return paymentRepo{t.s} }

type courtRepo struct{ s *Store }

func (r courtRepo) FindByID(_ context.Context, id uuid.UUID) (*court.Court, error) {
	if err := r.s.fail("courts.FindByID"); err != nil {
		return nil, err
	}
	c, ok := r.s.state.courts[id]
	if !ok {
		return nil, notFound("court not found")
	}
	cp := *c
	return &cp, nil
}

func (r courtRepo) ClubOwner(_ context.Context, clubID uuid.UUID) (uuid.UUID, error) {
	owner, ok := r.s.state.clubs[clubID]
	if !ok {
		return uuid.Nil, notFound("club not found")
	}
	return owner, nil
}

func (r courtRepo) Create(_ context.Context, c *court.Court) error {
	if _, ok := r.s.state.clubs[c.ClubID()]; !ok {
		return infra.NewRepoErr(infra.KindForeignKeyViolated, "club does not exist")
	}
	cp := *c
	r.s.state.courts[c.ID()] = &cp
	return nil
}

func (r courtRepo) Update(_ context.Context, c *court.Court) error {
	if _, ok := r.s.state.courts[c.ID()]; !ok {
		return notFound("court not found")
	}
	cp := *c
	r.s.state.courts[c.ID()] = &cp
	return nil
}

func (r courtRepo) DeleteIfUnbooked(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.s.state.courts[id]; !ok {
		return false, nil
	}
	for _, b := range r.s.state.bookings {
		if b.CourtID() == id {
			return false, nil
		}
	}
	delete(r.s.state.courts, id)
	for sid, ts := range r.s.state.slots {
		if ts.CourtID() == id {
			delete(r.s.state.slots, sid)
			delete(r.s.state.slotKeys, keyOf(ts))
		}
	}
	return true, nil
}

type slotRepo struct{ s *Store }

func (r slotRepo) ListByCourtAndDate(_ context.Context, courtID uuid.UUID, date time.Time) ([]*slot.TimeSlot, error) {
	if err := r.s.fail("slots.ListByCourtAndDate"); err != nil {
		return nil, err
	}
	return r.s.slotsFor(courtID, date), nil
}

func (r slotRepo) LockCourtDate(context.Context, uuid.UUID, time.Time) error {
	return r.s.fail("slots.LockCourtDate")
}

func (r slotRepo) InsertIfAbsent(_ context.Context, slots []*slot.TimeSlot) (int, error) {
	if err := r.s.fail("slots.InsertIfAbsent"); err != nil {
		return 0, err
	}
	n := 0
	for _, ts := range slots {
		k := keyOf(ts)
		if _, exists := r.s.state.slotKeys[k]; exists {
			continue
		}
		r.s.state.slots[ts.ID()] = ts
		r.s.state.slotKeys[k] = ts.ID()
		n++
	}
	r.s.SlotInserts += n
	return n, nil
}

func (r slotRepo) FindByID(_ context.Context, id uuid.UUID) (*slot.TimeSlot, error) {
	ts, ok := r.s.state.slots[id]
	if !ok {
		return nil, notFound("time slot not found")
	}
	return ts, nil
}

func (r slotRepo) Reserve(_ context.Context, id uuid.UUID) (bool, error) {
	return r.setAvailable(id, true, false)
}

func (r slotRepo) Release(_ context.Context, id uuid.UUID) (bool, error) {
	return r.setAvailable(id, false, true)
}

func (r slotRepo) setAvailable(id uuid.UUID, from, to bool) (bool, error) {
	ts, ok := r.s.state.slots[id]
	if !ok || ts.IsAvailable() != from {
		return false, nil
	}
	r.s.state.slots[id] = slot.ReconstructTimeSlot(ts.ID(), ts.CourtID(), ts.Date(), ts.Start(), ts.End(), to, ts.CreatedAt())
	return true, nil
}

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.s.fail("bookings.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.state.bookings {
		if existing.TimeSlotID() == b.TimeSlotID() && existing.Status() != booking.StatusCancelled {
			return duplicate("active booking exists for time slot")
		}
		if b.IdempotencyKey() != nil && existing.IdempotencyKey() != nil &&
			*existing.IdempotencyKey() == *b.IdempotencyKey() && existing.CustomerID() == b.CustomerID() {
			return duplicate("idempotency key already used")
		}
	}
	cp := *b
	r.s.state.bookings[b.ID()] = &cp
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.s.state.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	cp := *b
	return &cp, nil
}

func (r bookingRepo) FindByIdempotencyKey(_ context.Context, customerID, key uuid.UUID) (*booking.Booking, error) {
	for _, b := range r.s.state.bookings {
		if b.CustomerID() == customerID && b.IdempotencyKey() != nil && *b.IdempotencyKey() == key {
			cp := *b
			return &cp, nil
		}
	}
	return nil, notFound("booking not found")
}

func (r bookingRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to booking.Status, at time.Time) (bool, error) {
	if err := r.s.fail("bookings.TransitionStatus"); err != nil {
		return false, err
	}
	b, ok := r.s.state.bookings[id]
	if !ok || b.Status() != from {
		return false, nil
	}
	r.s.state.bookings[id] = booking.ReconstructBooking(
		b.ID(), b.TimeSlotID(), b.CourtID(), b.CustomerID(), b.CustomerEmail(), b.OwnerID(),
		b.Date(), b.Start(), b.End(), b.PlayerCount(), b.TotalPrice(), b.PaymentMethod(),
		to, b.IdempotencyKey(), b.CreatedAt(), at,
	)
	return true, nil
}

func (r bookingRepo) List(_ context.Context, f booking.Filter) ([]*booking.Booking, int, error) {
	f = f.Normalize()
	var matched []*booking.Booking
	for _, b := range r.s.state.bookings {
		if f.Matches(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date().Equal(matched[j].Date()) {
			return matched[i].Date().After(matched[j].Date())
		}
		return matched[i].Start() > matched[j].Start()
	})
	total := len(matched)
	if f.Offset >= total {
		return []*booking.Booking{}, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if err := r.s.fail("payments.Create"); err != nil {
		return err
	}
	if _, exists := r.s.state.payments[p.TransactionID()]; exists {
		return duplicate("transaction id already exists")
	}
	cp := *p
	r.s.state.payments[p.TransactionID()] = &cp
	return nil
}

func (r paymentRepo) FindByTransactionID(_ context.Context, transactionID string) (*payment.Payment, error) {
	p, ok := r.s.state.payments[transactionID]
	if !ok {
		return nil, notFound("payment not found")
	}
	cp := *p
	return &cp, nil
}

func (r paymentRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	for _, p := range r.s.state.payments {
		if p.BookingID() != nil && *p.BookingID() == bookingID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("payment not found")
}

func (r paymentRepo) Settle(_ context.Context, transactionID string, to payment.Status, raw json.RawMessage, at time.Time) (bool, error) {
	if err := r.s.fail("payments.Settle"); err != nil {
		return false, err
	}
	p, ok := r.s.state.payments[transactionID]
	if !ok {
		return false, nil
	}
	cp := *p
	if err := cp.Settle(to, raw, at); err != nil {
		return false, nil
	}
	r.s.state.payments[transactionID] = &cp
	return true, nil
}
