package service

import (
	"context"

	"kalemmeydani/internal/middleware"
	"kalemmeydani/internal/models"
	"kalemmeydani/internal/observability"
	"kalemmeydani/internal/repository"
	"kalemmeydani/internal/validation"

	"gorm.io/gorm"
)

// PostService owns the author-facing post lifecycle. The battle-derived
// fields (status flips to in_battle, win counts) are written only by the
// BattleService; this service guards against edits that would collide with
// an ongoing battle.
type PostService struct {
	db       *gorm.DB
	postRepo repository.PostRepository
}

func NewPostService(db *gorm.DB, postRepo repository.PostRepository) *PostService {
	return &PostService{db: db, postRepo: postRepo}
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	Excerpt  string
	Category string
	ImageURL string
	Status   models.PostStatus
}

type ListPostsInput struct {
	Search   string
	Category string
	UserID   uint
	Limit    int
	Offset   int
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Excerpt  string
	Category string
	ImageURL string
	Status   models.PostStatus
}

func validatePostFields(title, content, excerpt, category string) error {
	if err := validation.ValidatePostTitle(title); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(content); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostExcerpt(excerpt); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostCategory(category); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// CreatePost persists a new post and, when it is born published, bumps the
// author's post count after the post's own write has committed. A failed
// counter bump is logged and counted, never surfaced: the post itself is
// already durable.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content, in.Excerpt, in.Category); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if status != models.PostStatusPublished && status != models.PostStatusDraft {
		return nil, models.NewValidationError("Status must be draft or published")
	}

	post := &models.Post{
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Category: in.Category,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
		Status:   status,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if status == models.PostStatusPublished {
		s.applyAuthorCascade(ctx, "post_create", in.UserID, 1)
	}
	return post, nil
}

// applyAuthorCascade runs the post-count/level cascade after the triggering
// write committed. Failures leave a recoverable inconsistency, so they are
// logged and counted instead of failing the original operation.
func (s *PostService) applyAuthorCascade(ctx context.Context, cascade string, userID uint, postsDelta int) {
	if err := bumpAuthorCounters(s.db.WithContext(ctx), userID, postsDelta, 0); err != nil {
		observability.CascadeFailures.WithLabelValues(cascade).Inc()
		middleware.Logger.ErrorContext(ctx, "author counter cascade failed",
			"cascade", cascade,
			"user_id", userID,
			"error", err.Error(),
		)
	}
}

// ListPosts returns the public feed: published and in-battle posts, with
// optional keyword search and category filter.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	filter := repository.PostFilter{
		Category:    in.Category,
		Search:      in.Search,
		UserID:      in.UserID,
		VisibleOnly: true,
	}
	return s.postRepo.List(ctx, filter, in.Limit, in.Offset)
}

// GetPost returns a post. Drafts and archived posts are visible only to
// their author; anyone can read published and in-battle posts.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if (post.Status == models.PostStatusDraft || post.Status == models.PostStatusArchived) &&
		post.UserID != currentUserID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// UpdatePost lets the author change content fields and move the post
// between draft, published and archived. In-battle posts are frozen until
// their battle resolves; in_battle can never be set by hand.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if !post.Editable() {
		return nil, models.NewValidationError("Post cannot be edited while it is in a battle")
	}

	if err := validatePostFields(in.Title, in.Content, in.Excerpt, in.Category); err != nil {
		return nil, err
	}

	newStatus := post.Status
	if in.Status != "" {
		switch in.Status {
		case models.PostStatusDraft, models.PostStatusPublished, models.PostStatusArchived:
			newStatus = in.Status
		default:
			return nil, models.NewValidationError("Status must be draft, published or archived")
		}
	}

	wasDraft := post.Status == models.PostStatusDraft
	post.Title = in.Title
	post.Content = in.Content
	post.Excerpt = in.Excerpt
	post.Category = in.Category
	post.ImageURL = in.ImageURL
	post.Status = newStatus
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if wasDraft && newStatus == models.PostStatusPublished {
		s.applyAuthorCascade(ctx, "post_publish", post.UserID, 1)
	}
	return post, nil
}

// DeletePost soft-deletes a post. Posts locked in a battle cannot be
// deleted; resolve or cancel the battle first. Published posts decrement
// the author's post count.
func (s *PostService) DeletePost(ctx context.Context, postID, currentUserID uint, isAdmin bool) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != currentUserID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if post.Status == models.PostStatusInBattle {
		return models.NewValidationError("Post cannot be deleted while it is in a battle")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	if post.Status != models.PostStatusDraft {
		s.applyAuthorCascade(ctx, "post_delete", post.UserID, -1)
	}
	return nil
}

// SimilarPosts returns published posts competing in the same category,
// strongest battle record first.
func (s *PostService) SimilarPosts(ctx context.Context, postID uint, limit int) ([]*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.postRepo.Similar(ctx, post, limit)
}
