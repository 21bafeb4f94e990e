package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/profyt7/carelinkai-sub009/internal/calendar"
	"github.com/profyt7/carelinkai-sub009/internal/domain"
)

type AvailabilityRepo struct {
	db *bun.DB
}

func NewAvailabilityRepo(db *bun.DB) *AvailabilityRepo {
	return &AvailabilityRepo{db: db}
}

func (r *AvailabilityRepo) FindOverlapping(ctx context.Context, ownerID string, window calendar.TimeWindow) ([]domain.AvailabilitySlot, error) {
	return selectAvailability(ctx, r.db, ownerID, window)
}

func selectAvailability(ctx context.Context, db bun.IDB, ownerID string, window calendar.TimeWindow) ([]domain.AvailabilitySlot, error) {
	var rows []domain.AvailabilitySlot
	err := db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID).
		Where("start_time < ?", window.End).
		Where("end_time > ?", window.Start).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
