package repository

import (
	"context"
	"errors"

	"kalemmeydani/internal/cache"
	"kalemmeydani/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows the post listing. Zero values mean "no filter".
// VisibleOnly restricts to the publicly readable statuses (published and
// in_battle) and is ignored when an explicit Status is set.
type PostFilter struct {
	Category    string
	Status      models.PostStatus
	VisibleOnly bool
	UserID      uint
	Search      string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Similar(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	var posts []*models.Post
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.Post{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := query.
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// applyFilter appends WHERE clauses for the requested filter. Search uses
// LOWER() LIKE rather than ILIKE so the same query runs on both Postgres
// and the sqlite test database.
func (r *postRepository) applyFilter(db *gorm.DB, filter PostFilter) *gorm.DB {
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	} else if filter.VisibleOnly {
		db = db.Where("status IN ?", []models.PostStatus{models.PostStatusPublished, models.PostStatusInBattle})
	}
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", like, like)
	}
	return db
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Similar returns published posts in the same category as the given post,
// strongest battle record first.
func (r *postRepository) Similar(ctx context.Context, post *models.Post, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("category = ? AND id <> ? AND status = ?", post.Category, post.ID, models.PostStatusPublished).
		Order("battle_wins DESC, created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
