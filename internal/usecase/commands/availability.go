package commands

import (
	"context"
	"log/slog"
	"time"

	"court-booking/internal/domain/court"
	"court-booking/internal/domain/slot"
	"court-booking/internal/infra/metrics"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type AvailabilityResult struct {
	CourtID     uuid.UUID
	CourtStatus court.Status
	Date        time.Time
	Slots       []*slot.TimeSlot
	// Generated is true when this call persisted the slots.
	Generated bool
}

//go:generate mockgen -source=availability.go -destination=../../mocks/commands/mock_availability.go -package=mockcommands
type AvailabilityCommands interface {
	Resolve(ctx context.Context, courtID uuid.UUID, date string) (*AvailabilityResult, error)
}

type availabilityUseCaseImpl struct {
	uow      shared.UnitOfWork
	settings settings
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewAvailabilityCommands(uow shared.UnitOfWork, cfg config.Config, rec *metrics.Recorder, logger *slog.Logger) AvailabilityCommands {
	return &availabilityUseCaseImpl{
		uow:      uow,
		settings: newSettings(cfg),
		metrics:  rec,
		logger:   logger,
	}
}

// Resolve returns the persisted slots for (court, date), generating and storing them
// on first access. Generation is serialized per (court, date) by an advisory lock and
// made idempotent by insert-if-absent on (court, date, start).
func (uc *availabilityUseCaseImpl) Resolve(ctx context.Context, courtID uuid.UUID, date string) (*AvailabilityResult, error) {
	day, err := slot.ParseDate(date)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if courtID == uuid.Nil {
		return nil, errs.Mark(errs.New("court id is required"), ErrValidation)
	}

	ctx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	var (
		c     *court.Court
		slots []*slot.TimeSlot
	)
	err = uc.uow.WithDB(ctx, func(ctx context.Context, tx shared.Tx) error {
		var derr error
		c, derr = tx.Courts().FindByID(ctx, courtID)
		if derr != nil {
			return markNotFound(derr, ErrCourtNotFound)
		}
		slots, derr = tx.Slots().ListByCourtAndDate(ctx, courtID, day)
		return derr
	})
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{CourtID: courtID, CourtStatus: c.Status(), Date: day, Slots: slots}
	if len(slots) > 0 {
		return result, nil
	}

	hours := c.Hours(uc.settings.fallbackHours)
	generated := slot.Generate(courtID, day, hours)
	if len(generated) == 0 {
		result.Slots = []*slot.TimeSlot{}
		return result, nil
	}

	var inserted int
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if derr := tx.Slots().LockCourtDate(ctx, courtID, day); derr != nil {
			return derr
		}
		existing, derr := tx.Slots().ListByCourtAndDate(ctx, courtID, day)
		if derr != nil {
			return derr
		}
		if len(existing) > 0 {
			slots = existing
			return nil
		}
		if inserted, derr = tx.Slots().InsertIfAbsent(ctx, generated); derr != nil {
			return derr
		}
		slots, derr = tx.Slots().ListByCourtAndDate(ctx, courtID, day)
		return derr
	})
	if err != nil {
		return nil, errs.Wrap(err, "generate time slots")
	}

	if inserted > 0 {
		uc.metrics.RecordSlotsGenerated(inserted)
		uc.logger.Info("time slots generated",
			"court_id", courtID.String(),
			"date", slot.FormatDate(day),
			"count", inserted)
	}
	result.Slots = slots
	result.Generated = inserted > 0
	return result, nil
}
