package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vytor/workshop/internal/play"
	"github.com/vytor/workshop/internal/repository/sqlite"
	"github.com/vytor/workshop/internal/services"
	"github.com/vytor/workshop/internal/testutil"
	"github.com/vytor/workshop/internal/worker"
)

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	games := sqlite.NewGameSessionRepository(db)
	prefs := sqlite.NewPreferenceRepository(db)
	txr := sqlite.NewTransactor(db)

	achievements := services.NewAchievementService(sqlite.NewAchievementRepository(db))
	accounts := services.NewAccountService(users, games, prefs, txr, 100)
	gameSvc := services.NewGameService(users, games, achievements, txr, 5)
	currency := services.NewCurrencyService(users)
	story := services.NewStoryService(sqlite.NewStoryRepository(db))

	pool := worker.NewPool(1, 8)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	hub := play.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	backend := &services.Backend{Accounts: accounts, Games: gameSvc, Currency: currency}
	manager := play.NewManager(backend, pool, story, hub, play.WithTickInterval(0))
	t.Cleanup(manager.Shutdown)

	srv := &Server{
		Accounts:     accounts,
		Games:        gameSvc,
		Achievements: achievements,
		Currency:     currency,
		Story:        story,
		Social:       services.NewSocialService(users, sqlite.NewFriendRepository(db)),
		Preferences:  services.NewPreferenceService(prefs),
		Play:         manager,
		Hub:          hub,
		HistoryLimit: 5,
	}
	return &testServer{handler: srv.Routes()}
}

// do sends body as JSON. userID, when non-zero, is sent as X-User-ID.
func (ts *testServer) do(t *testing.T, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set(userHeaderName, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(t *testing.T, username string) int64 {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/register", credentials{Username: username, Password: "cocoa"}, 0)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		UserID int64 `json:"userId"`
	}
	decode(t, rec, &body)
	return body.UserID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error.Code
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/healthz", nil, 0)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/readyz", nil, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RegisterSetsCookie(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", credentials{Username: "jingle", Password: "cocoa"}, 0)
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, userCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	ts.handler.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	var user struct {
		Username  string `json:"username"`
		MagicDust int    `json:"magic_dust"`
	}
	decode(t, me, &user)
	assert.Equal(t, "jingle", user.Username)
	assert.Equal(t, 100, user.MagicDust)
}

func TestAuth_DuplicateAndBadLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "jingle")

	rec := ts.do(t, http.MethodPost, "/api/auth/register", credentials{Username: "jingle", Password: "cocoa"}, 0)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/login", credentials{Username: "jingle", Password: "wrong"}, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))

	rec = ts.do(t, http.MethodPost, "/api/auth/login", credentials{Username: "jingle", Password: "cocoa"}, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RequiredForPrivateRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/analytics", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/analytics", nil, 999)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/leaderboard", nil, 0)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPreferences(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	var got struct {
		Theme string `json:"theme"`
	}
	rec := ts.do(t, http.MethodGet, "/api/preferences", nil, id)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &got)
	assert.Equal(t, "dynamic", got.Theme)

	rec = ts.do(t, http.MethodPost, "/api/preferences", map[string]string{"theme": "winter"}, id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/preferences", nil, id)
	decode(t, rec, &got)
	assert.Equal(t, "winter", got.Theme)
}

func TestBuyPowerUp(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	var res struct {
		Success    bool   `json:"success"`
		NewBalance int    `json:"newBalance"`
		Message    string `json:"message"`
	}
	rec := ts.do(t, http.MethodPost, "/api/powerup/buy", map[string]int{"cost": 30}, id)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 70, res.NewBalance)

	rec = ts.do(t, http.MethodPost, "/api/powerup/buy", map[string]int{"cost": 500}, id)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.False(t, res.Success)
	assert.Equal(t, "Not enough Magic Dust!", res.Message)

	rec = ts.do(t, http.MethodPost, "/api/powerup/buy", map[string]int{"cost": 0}, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveGame_RewardsAndHistory(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	rec := ts.do(t, http.MethodPost, "/api/game/save", map[string]any{
		"difficulty": "4x4",
		"moves":      30,
		"time":       45,
		"isWon":      true,
	}, id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved struct {
		DustEarned *int `json:"dustEarned"`
		Balance    int  `json:"balance"`
		NewUnlocks []struct {
			Name string `json:"name"`
		} `json:"newUnlocks"`
	}
	decode(t, rec, &saved)
	require.NotNil(t, saved.DustEarned)
	assert.Equal(t, 46, *saved.DustEarned)
	assert.Equal(t, 146, saved.Balance)
	assert.Len(t, saved.NewUnlocks, 2)

	var history []struct {
		DifficultyLevel string `json:"difficulty_level"`
		IsWon           bool   `json:"is_won"`
	}
	rec = ts.do(t, http.MethodGet, "/api/history", nil, id)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &history)
	require.Len(t, history, 1)
	assert.Equal(t, "4x4", history[0].DifficultyLevel)
	assert.True(t, history[0].IsWon)

	rec = ts.do(t, http.MethodGet, "/api/history?limit=abc", nil, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStory(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	rec := ts.do(t, http.MethodPost, "/api/story/update", map[string]string{}, id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/story/update", map[string]string{"choiceMade": "hard_mode"}, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var update struct {
		Chapter       int  `json:"chapter"`
		NewDifficulty *int `json:"newDifficulty"`
	}
	decode(t, rec, &update)
	assert.Equal(t, 2, update.Chapter)
	require.NotNil(t, update.NewDifficulty)
	assert.Equal(t, 6, *update.NewDifficulty)

	rec = ts.do(t, http.MethodPost, "/api/story/reset", nil, id)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/story", nil, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		Chapter int `json:"chapter"`
	}
	decode(t, rec, &status)
	assert.Equal(t, 1, status.Chapter)
}

func TestFriends(t *testing.T) {
	ts := newTestServer(t)
	jingle := ts.register(t, "jingle")
	holly := ts.register(t, "holly")

	rec := ts.do(t, http.MethodPost, "/api/friends/request", map[string]string{"friendName": "holly"}, jingle)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/friends/request", map[string]string{"friendName": "holly"}, jingle)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var pending []struct {
		UserID int64 `json:"user_id"`
	}
	rec = ts.do(t, http.MethodGet, "/api/friends/requests", nil, holly)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, jingle, pending[0].UserID)

	rec = ts.do(t, http.MethodPost, "/api/friends/accept", map[string]int64{"requesterId": jingle}, holly)
	require.Equal(t, http.StatusOK, rec.Code)

	var board []struct {
		Username string `json:"username"`
	}
	rec = ts.do(t, http.MethodGet, "/api/friends/leaderboard", nil, jingle)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &board)
	assert.Len(t, board, 2)
}

func TestPlay_StartMovePowerUp(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	rec := ts.do(t, http.MethodPost, "/api/play/move", map[string]int{"index": 0}, id)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/play/start", map[string]int{"size": 3}, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var started playResponse
	decode(t, rec, &started)
	assert.Equal(t, "active", string(started.State.State))
	assert.Len(t, started.State.Tiles, 9)
	require.NotEmpty(t, started.State.Movable)

	rec = ts.do(t, http.MethodPost, "/api/play/difficulty", map[string]int{"size": 4}, id)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/play/move", map[string]int{"index": started.State.EmptyIndex}, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var moved playResponse
	decode(t, rec, &moved)
	assert.False(t, moved.Accepted)

	rec = ts.do(t, http.MethodPost, "/api/play/powerup/rocket", nil, id)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/play/powerup/hint", nil, id)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var used struct {
		Activation struct {
			Balance   int  `json:"balance"`
			HintIndex *int `json:"hintIndex"`
		} `json:"activation"`
	}
	decode(t, rec, &used)
	assert.Equal(t, 70, used.Activation.Balance)
	assert.NotNil(t, used.Activation.HintIndex)

	rec = ts.do(t, http.MethodPost, "/api/play/abandon", nil, id)
	require.Equal(t, http.StatusOK, rec.Code)
	var abandoned playResponse
	decode(t, rec, &abandoned)
	assert.True(t, abandoned.Accepted)
	assert.Equal(t, "idle", string(abandoned.State.State))
}

func TestPlay_PowerUpInsufficientFunds(t *testing.T) {
	ts := newTestServer(t)
	id := ts.register(t, "jingle")

	rec := ts.do(t, http.MethodPost, "/api/powerup/buy", map[string]int{"cost": 80}, id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/play/start", map[string]int{"size": 3}, id)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/play/powerup/preview", nil, id)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", errorCode(t, rec))
}
