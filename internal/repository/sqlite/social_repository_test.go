package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/workshop/internal/models"
	"github.com/vytor/workshop/internal/repository/sqlite"
	"github.com/vytor/workshop/internal/testutil"
)

// SocialRepositorySuite covers friends, story progress, preferences and
// achievements.
type SocialRepositorySuite struct {
	suite.Suite
	db          *sql.DB
	alice, bob  int64
	carol, dave int64
}

func (s *SocialRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.alice = testutil.CreateUser(s.T(), s.db, "alice", 300)
	s.bob = testutil.CreateUser(s.T(), s.db, "bob", 500)
	s.carol = testutil.CreateUser(s.T(), s.db, "carol", 900)
	s.dave = testutil.CreateUser(s.T(), s.db, "dave", 50)
}

func (s *SocialRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SocialRepositorySuite) TestFriendRequestLifecycle() {
	ctx := context.Background()
	repo := sqlite.NewFriendRepository(s.db)

	_, err := repo.Create(ctx, s.alice, s.bob)
	s.Require().NoError(err)

	f, err := repo.Between(ctx, s.bob, s.alice)
	s.Require().NoError(err)
	s.Require().NotNil(f)
	s.Assert().Equal(models.FriendPending, f.Status)

	pending, err := repo.Pending(ctx, s.bob)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Assert().Equal(models.FriendRequest{UserID: s.alice, Username: "alice"}, pending[0])

	ok, err := repo.Accept(ctx, s.alice, s.bob)
	s.Require().NoError(err)
	s.Assert().True(ok)

	ok, err = repo.Accept(ctx, s.alice, s.bob)
	s.Require().NoError(err)
	s.Assert().False(ok, "already accepted")

	pending, err = repo.Pending(ctx, s.bob)
	s.Require().NoError(err)
	s.Assert().Empty(pending)
}

func (s *SocialRepositorySuite) TestFriendsLeaderboard() {
	ctx := context.Background()
	repo := sqlite.NewFriendRepository(s.db)

	_, err := repo.Create(ctx, s.alice, s.bob)
	s.Require().NoError(err)
	_, err = repo.Accept(ctx, s.alice, s.bob)
	s.Require().NoError(err)
	_, err = repo.Create(ctx, s.dave, s.alice)
	s.Require().NoError(err)
	_, err = repo.Accept(ctx, s.dave, s.alice)
	s.Require().NoError(err)
	// carol's request is still pending, so carol is excluded.
	_, err = repo.Create(ctx, s.carol, s.alice)
	s.Require().NoError(err)

	board, err := repo.Leaderboard(ctx, s.alice, 10)
	s.Require().NoError(err)
	s.Assert().Equal([]models.LeaderboardEntry{
		{Username: "bob", MagicDust: 500},
		{Username: "alice", MagicDust: 300},
		{Username: "dave", MagicDust: 50},
	}, board)
}

func (s *SocialRepositorySuite) TestStoryProgress() {
	ctx := context.Background()
	repo := sqlite.NewStoryRepository(s.db)

	_, found, err := repo.Chapter(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().False(found)

	s.Require().NoError(repo.SetChapter(ctx, s.alice, 1))
	s.Require().NoError(repo.SetChapter(ctx, s.alice, 2))
	chapter, found, err := repo.Chapter(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal(2, chapter)

	s.Require().NoError(repo.Delete(ctx, s.alice))
	_, found, err = repo.Chapter(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().False(found)
}

func (s *SocialRepositorySuite) TestThemePreference() {
	ctx := context.Background()
	repo := sqlite.NewPreferenceRepository(s.db)

	_, found, err := repo.Theme(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().False(found)

	s.Require().NoError(repo.SetTheme(ctx, s.alice, "dynamic"))
	s.Require().NoError(repo.SetTheme(ctx, s.alice, "midnight"))
	theme, found, err := repo.Theme(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal("midnight", theme)
}

func (s *SocialRepositorySuite) TestAchievementUnlock() {
	ctx := context.Background()
	repo := sqlite.NewAchievementRepository(s.db)

	all, err := repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Assert().Equal("Speed Sleigh", all[0].Name)

	first, err := repo.Unlock(ctx, s.alice, 4)
	s.Require().NoError(err)
	s.Assert().True(first)

	again, err := repo.Unlock(ctx, s.alice, 4)
	s.Require().NoError(err)
	s.Assert().False(again)

	unlocked, err := repo.UnlockedAt(ctx, s.alice)
	s.Require().NoError(err)
	s.Assert().Len(unlocked, 1)
	s.Assert().Contains(unlocked, int64(4))

	a, err := repo.Get(ctx, 3)
	s.Require().NoError(err)
	s.Require().NotNil(a)
	s.Assert().Equal("Santa Master", a.Name)
}

func TestSocialRepositorySuite(t *testing.T) {
	suite.Run(t, new(SocialRepositorySuite))
}
