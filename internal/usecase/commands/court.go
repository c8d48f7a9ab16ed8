package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"court-booking/internal/domain/court"
	"court-booking/internal/domain/slot"
	"court-booking/internal/domain/user"
	"court-booking/internal/pkg/config"
	"court-booking/internal/pkg/errs"
	"court-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateCourtInput struct {
	ClubID         uuid.UUID
	Actor          user.Identity
	Name           string
	PricePerHour   int64
	OperatingHours json.RawMessage
}

// UpdateCourtInput leaves nil fields untouched.
type UpdateCourtInput struct {
	CourtID             uuid.UUID
	Actor               user.Identity
	Name                *string
	PricePerHour        *int64
	Status              *string
	OperatingHours      json.RawMessage
	ClearOperatingHours bool
}

func (in UpdateCourtInput) touchesDetails() bool {
	return in.Name != nil || in.PricePerHour != nil || len(in.OperatingHours) > 0 || in.ClearOperatingHours
}

//go:generate mockgen -source=court.go -destination=../../mocks/commands/mock_court.go -package=mockcommands
type CourtCommands interface {
	CreateCourt(ctx context.Context, in CreateCourtInput) (*court.Court, error)
	UpdateCourt(ctx context.Context, in UpdateCourtInput) (*court.Court, error)
	DeleteCourt(ctx context.Context, courtID uuid.UUID, actor user.Identity) error
}

type courtUseCaseImpl struct {
	uow      shared.UnitOfWork
	settings settings
	logger   *slog.Logger
}

func NewCourtCommands(uow shared.UnitOfWork, cfg config.Config, logger *slog.Logger) CourtCommands {
	return &courtUseCaseImpl{uow: uow, settings: newSettings(cfg), logger: logger}
}

func (uc *courtUseCaseImpl) CreateCourt(ctx context.Context, in CreateCourtInput) (*court.Court, error) {
	if !in.Actor.IsClubOwner() {
		return nil, ErrForbidden
	}
	hours, err := uc.parseHours(in.OperatingHours)
	if err != nil {
		return nil, err
	}
	c, err := court.NewCourt(in.ClubID, in.Actor.ID, in.Name, in.PricePerHour, hours)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	ctx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		owner, derr := tx.Courts().ClubOwner(ctx, in.ClubID)
		if derr != nil {
			return markNotFound(derr, ErrClubNotFound)
		}
		if owner != in.Actor.ID {
			return ErrForbidden
		}
		return tx.Courts().Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("court created", "court_id", c.ID().String(), "club_id", in.ClubID.String())
	return c, nil
}

func (uc *courtUseCaseImpl) UpdateCourt(ctx context.Context, in UpdateCourtInput) (*court.Court, error) {
	var status *court.Status
	if in.Status != nil {
		s, err := court.ParseStatus(*in.Status)
		if err != nil {
			return nil, errs.Mark(err, ErrValidation)
		}
		status = &s
	}
	hours, err := uc.parseHours(in.OperatingHours)
	if err != nil {
		return nil, err
	}

	ctx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	var updated *court.Court
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, derr := tx.Courts().FindByID(ctx, in.CourtID)
		if derr != nil {
			return markNotFound(derr, ErrCourtNotFound)
		}
		switch {
		case in.Actor.IsClubOwner() && c.IsOwnedBy(in.Actor.ID):
		case in.Actor.IsAdmin():
			// Admins moderate availability only.
			if in.touchesDetails() {
				return errs.Mark(errs.New("admins may only change court status"), ErrForbidden)
			}
		default:
			return ErrForbidden
		}

		if in.Name != nil {
			if derr = c.Rename(*in.Name); derr != nil {
				return errs.Mark(derr, ErrValidation)
			}
		}
		if in.PricePerHour != nil {
			if derr = c.SetPrice(*in.PricePerHour); derr != nil {
				return errs.Mark(derr, ErrValidation)
			}
		}
		if status != nil {
			if derr = c.SetStatus(*status); derr != nil {
				return errs.Mark(derr, ErrValidation)
			}
		}
		switch {
		case in.ClearOperatingHours:
			c.SetOperatingHours(nil)
		case hours != nil:
			c.SetOperatingHours(hours)
		}

		if derr = tx.Courts().Update(ctx, c); derr != nil {
			return markNotFound(derr, ErrCourtNotFound)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (uc *courtUseCaseImpl) DeleteCourt(ctx context.Context, courtID uuid.UUID, actor user.Identity) error {
	ctx, cancel := bounded(ctx, uc.settings.dbTimeout)
	defer cancel()

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		c, derr := tx.Courts().FindByID(ctx, courtID)
		if derr != nil {
			return markNotFound(derr, ErrCourtNotFound)
		}
		if !actor.IsAdmin() && !(actor.IsClubOwner() && c.IsOwnedBy(actor.ID)) {
			return ErrForbidden
		}
		deleted, derr := tx.Courts().DeleteIfUnbooked(ctx, courtID)
		if derr != nil {
			return derr
		}
		if !deleted {
			return ErrCourtHasBookings
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("court deleted", "court_id", courtID.String(), "actor_id", actor.ID.String())
	return nil
}

// parseHours is strict: a descriptor supplied by an owner must be well-formed.
func (uc *courtUseCaseImpl) parseHours(raw json.RawMessage) (*slot.OperatingHours, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	hours, err := slot.ParseOperatingHours(raw, uc.settings.fallbackHours)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	return &hours, nil
}
