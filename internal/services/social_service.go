package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository"
)

const (
	globalLeaderboardSize  = 5
	friendsLeaderboardSize = 10
)

// SocialService handles friend requests and leaderboards
type SocialService interface {
	SendRequest(ctx context.Context, userID int64, friendName string) error
	PendingRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
	Accept(ctx context.Context, userID, requesterID int64) error
	GlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	FriendsLeaderboard(ctx context.Context, userID int64) ([]models.LeaderboardEntry, error)
}

type socialService struct {
	users   repository.UserRepository
	friends repository.FriendRepository
}

// NewSocialService creates a new SocialService
func NewSocialService(users repository.UserRepository, friends repository.FriendRepository) SocialService {
	return &socialService{users: users, friends: friends}
}

func (s *socialService) SendRequest(ctx context.Context, userID int64, friendName string) error {
	log := logger.FromContext(ctx)
	friendName = strings.TrimSpace(friendName)
	log.Debug("friend request: user_id=%d, friend=%s", userID, friendName)

	if friendName == "" {
		return errors.NewValidationError("friendName", "cannot be empty")
	}

	friend, err := s.users.GetByUsername(ctx, friendName)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if friend == nil {
		return errors.NewNotFoundError("user", friendName)
	}
	if friend.ID == userID {
		return errors.NewBadRequestError("you cannot add yourself")
	}

	existing, err := s.friends.Between(ctx, userID, friend.ID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if existing != nil {
		if existing.Status == models.FriendAccepted {
			return errors.NewConflictError("already friends")
		}
		return errors.NewConflictError("request already pending")
	}

	if _, err := s.friends.Create(ctx, userID, friend.ID); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return errors.NewConflictError("request already pending")
		}
		log.Error("failed to create friend request: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("friend request sent: user_id=%d, friend_id=%d", userID, friend.ID)
	return nil
}

func (s *socialService) PendingRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	requests, err := s.friends.Pending(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return requests, nil
}

func (s *socialService) Accept(ctx context.Context, userID, requesterID int64) error {
	ok, err := s.friends.Accept(ctx, requesterID, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to accept friend request: %v", err)
		return errors.NewInternalError(err)
	}
	if !ok {
		return errors.NewNotFoundError("friend request", requesterID)
	}
	return nil
}

func (s *socialService) GlobalLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.users.TopByDust(ctx, globalLeaderboardSize)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *socialService) FriendsLeaderboard(ctx context.Context, userID int64) ([]models.LeaderboardEntry, error) {
	entries, err := s.friends.Leaderboard(ctx, userID, friendsLeaderboardSize)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}
