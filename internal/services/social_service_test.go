package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/services"
	"github.com/vytor/workshop/internal/testutil/mocks"
)

type SocialServiceSuite struct {
	suite.Suite
	users   *mocks.MockUserRepository
	friends *mocks.MockFriendRepository
	svc     services.SocialService
}

func (s *SocialServiceSuite) SetupTest() {
	s.users = new(mocks.MockUserRepository)
	s.friends = new(mocks.MockFriendRepository)
	s.svc = services.NewSocialService(s.users, s.friends)
}

func (s *SocialServiceSuite) TestSendRequest() {
	s.users.On("GetByUsername", mock.Anything, "bob").Return(&models.User{ID: 2, Username: "bob"}, nil)
	s.friends.On("Between", mock.Anything, int64(1), int64(2)).Return(nil, nil)
	s.friends.On("Create", mock.Anything, int64(1), int64(2)).Return(int64(10), nil)

	s.Require().NoError(s.svc.SendRequest(context.Background(), 1, " bob "))
	s.friends.AssertExpectations(s.T())
}

func (s *SocialServiceSuite) TestSendRequestToSelf() {
	s.users.On("GetByUsername", mock.Anything, "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

	err := s.svc.SendRequest(context.Background(), 1, "alice")
	requireAppError(s.T(), err, http.StatusBadRequest)
	s.friends.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SocialServiceSuite) TestSendRequestUnknownUser() {
	s.users.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)

	err := s.svc.SendRequest(context.Background(), 1, "ghost")
	requireAppError(s.T(), err, http.StatusNotFound)
}

func (s *SocialServiceSuite) TestSendRequestExisting() {
	s.users.On("GetByUsername", mock.Anything, "bob").Return(&models.User{ID: 2}, nil)
	s.users.On("GetByUsername", mock.Anything, "carol").Return(&models.User{ID: 3}, nil)
	s.friends.On("Between", mock.Anything, int64(1), int64(2)).Return(&models.Friendship{Status: models.FriendAccepted}, nil)
	s.friends.On("Between", mock.Anything, int64(1), int64(3)).Return(&models.Friendship{Status: models.FriendPending}, nil)

	err := s.svc.SendRequest(context.Background(), 1, "bob")
	requireAppError(s.T(), err, http.StatusConflict)
	s.Contains(err.Error(), "already friends")

	err = s.svc.SendRequest(context.Background(), 1, "carol")
	requireAppError(s.T(), err, http.StatusConflict)
	s.Contains(err.Error(), "pending")
}

func (s *SocialServiceSuite) TestAccept() {
	s.friends.On("Accept", mock.Anything, int64(2), int64(1)).Return(true, nil)
	s.friends.On("Accept", mock.Anything, int64(3), int64(1)).Return(false, nil)

	s.Require().NoError(s.svc.Accept(context.Background(), 1, 2))
	requireAppError(s.T(), s.svc.Accept(context.Background(), 1, 3), http.StatusNotFound)
}

func (s *SocialServiceSuite) TestLeaderboardSizes() {
	s.users.On("TopByDust", mock.Anything, 5).Return([]models.LeaderboardEntry{{Username: "a", MagicDust: 1}}, nil)
	s.friends.On("Leaderboard", mock.Anything, int64(1), 10).Return([]models.LeaderboardEntry{}, nil)

	global, err := s.svc.GlobalLeaderboard(context.Background())
	require.NoError(s.T(), err)
	s.Len(global, 1)

	friends, err := s.svc.FriendsLeaderboard(context.Background(), 1)
	require.NoError(s.T(), err)
	s.Empty(friends)
}

func TestSocialServiceSuite(t *testing.T) {
	suite.Run(t, new(SocialServiceSuite))
}
