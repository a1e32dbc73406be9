package service

import (
	"context"

	"kalemmeydani/internal/models"
	"kalemmeydani/internal/repository"
	"kalemmeydani/internal/validation"
)

// UserService covers the profile surface: public profiles, self profile
// updates and the writer leaderboard. Credential handling lives in the
// server's auth handlers; counter and level writes belong to the cascades.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

type UpdateProfileInput struct {
	UserID    uint
	Bio       string
	AvatarURL string
}

// GetProfile returns a user's public profile with their recent visible posts.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	posts, _, err := s.postRepo.List(ctx, repository.PostFilter{
		UserID:      userID,
		VisibleOnly: true,
	}, 10, 0)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// UpdateProfile changes the caller's bio and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	user.Bio = in.Bio
	user.AvatarURL = in.AvatarURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Leaderboard returns authors ranked by battle wins, then post count.
func (s *UserService) Leaderboard(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.userRepo.List(ctx, limit, offset)
}
