package repository

import (
	"context"
	"errors"

	"kalemmeydani/internal/models"
	"kalemmeydani/internal/observability"

	"gorm.io/gorm"
)

// BattleRepository defines read and simple write operations for battles.
// Multi-entity state transitions (creation, voting, resolution) live in the
// battle service, which runs them inside a single transaction.
type BattleRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Battle, error)
	MostRecentActive(ctx context.Context) (*models.Battle, error)
	List(ctx context.Context, status models.BattleStatus, limit, offset int) ([]*models.Battle, int64, error)
	ListForPost(ctx context.Context, postID uint) ([]*models.Battle, error)
}

type battleRepository struct {
	db *gorm.DB
}

// NewBattleRepository creates a new battle repository
func NewBattleRepository(db *gorm.DB) BattleRepository {
	return &battleRepository{db: db}
}

func (r *battleRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("PostA").
		Preload("PostA.User").
		Preload("PostB").
		Preload("PostB.User").
		Preload("WinnerPost")
}

func (r *battleRepository) GetByID(ctx context.Context, id uint) (*models.Battle, error) {
	var battle models.Battle
	if err := r.preload(r.db.WithContext(ctx)).First(&battle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Battle", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &battle, nil
}

// MostRecentActive returns the newest battle open for voting, or nil when
// no battle is active.
func (r *battleRepository) MostRecentActive(ctx context.Context) (*models.Battle, error) {
	defer observability.TrackQuery("select", "battles")()
	var battle models.Battle
	err := r.preload(r.db.WithContext(ctx)).
		Where("status = ?", models.BattleStatusActive).
		Order("created_at DESC, id DESC").
		First(&battle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &battle, nil
}

func (r *battleRepository) List(ctx context.Context, status models.BattleStatus, limit, offset int) ([]*models.Battle, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Battle{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var battles []*models.Battle
	err := r.preload(query).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&battles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return battles, total, nil
}

func (r *battleRepository) ListForPost(ctx context.Context, postID uint) ([]*models.Battle, error) {
	var battles []*models.Battle
	err := r.preload(r.db.WithContext(ctx)).
		Where("post_a_id = ? OR post_b_id = ?", postID, postID).
		Order("created_at DESC, id DESC").
		Find(&battles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return battles, nil
}
