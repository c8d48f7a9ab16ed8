package repository

import (
	"context"
	"time"

	"court-booking/internal/domain/court"
	"court-booking/internal/infra"
	"court-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const courtColumns = `c.id, c.club_id, cl.owner_id, c.name, c.price_per_hour, c.status,
	c.operating_hours, c.created_at, c.updated_at`

type CourtRepository struct {
	db DBTX
}

func NewCourtRepository(db DBTX) *CourtRepository {
	return &CourtRepository{db: db}
}

func (r *CourtRepository) FindByID(ctx context.Context, id uuid.UUID) (*court.Court, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courtColumns+`
		FROM courts c JOIN clubs cl ON cl.id = c.club_id
		WHERE c.id = $1`, id)

	c, err := scanCourt(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "court not found")
		}
		return nil, infra.WrapRepoErr("failed to find court", err)
	}
	return c, nil
}

func (r *CourtRepository) ClubOwner(ctx context.Context, clubID uuid.UUID) (uuid.UUID, error) {
	var owner uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT owner_id FROM clubs WHERE id = $1`, clubID).Scan(&owner)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.NewRepoErr(infra.KindNotFound, "club not found")
		}
		return uuid.Nil, infra.WrapRepoErr("failed to find club", err)
	}
	return owner, nil
}

func (r *CourtRepository) Create(ctx context.Context, c *court.Court) error {
	_, err := r.db.Exec(ctx, `INSERT INTO courts
		(id, club_id, name, price_per_hour, status, operating_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID(), c.ClubID(), c.Name(), c.PricePerHour(), c.Status().String(),
		jsonbArg(c.OperatingHours()), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create court", err)
	}
	return nil
}

func (r *CourtRepository) Update(ctx context.Context, c *court.Court) error {
	tag, err := r.db.Exec(ctx, `UPDATE courts
		SET name = $2, price_per_hour = $3, status = $4, operating_hours = $5, updated_at = $6
		WHERE id = $1`,
		c.ID(), c.Name(), c.PricePerHour(), c.Status().String(),
		jsonbArg(c.OperatingHours()), c.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update court", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "court not found")
	}
	return nil
}

// DeleteIfUnbooked removes the court (its slots cascade) only while no booking references it.
func (r *CourtRepository) DeleteIfUnbooked(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM courts
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM bookings WHERE court_id = $1)`, id)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete court", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanCourt(row rowScanner) (*court.Court, error) {
	var (
		id, clubID, ownerID  uuid.UUID
		name, status         string
		price                int64
		hours                []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &clubID, &ownerID, &name, &price, &status, &hours, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return court.ReconstructCourt(id, clubID, ownerID, name, price, court.Status(status), hours, createdAt, updatedAt), nil
}
