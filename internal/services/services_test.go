package services_test

import (
	"database/sql"
	"testing"

	"github.com/vytor/workshop/internal/repository/sqlite"
	"github.com/vytor/workshop/internal/services"
	"github.com/vytor/workshop/internal/testutil"
)

// stack wires every service over one in-memory database.
type stack struct {
	db           *sql.DB
	accounts     services.AccountService
	games        services.GameService
	currency     services.CurrencyService
	achievements services.AchievementService
	preferences  services.PreferenceService
}

func newStack(t *testing.T) *stack {
	db := testutil.NewTestDB(t)
	t.Cleanup(func() { _ = db.Close() })

	users := sqlite.NewUserRepository(db)
	games := sqlite.NewGameSessionRepository(db)
	prefs := sqlite.NewPreferenceRepository(db)
	txr := sqlite.NewTransactor(db)
	achievements := services.NewAchievementService(sqlite.NewAchievementRepository(db))

	return &stack{
		db:           db,
		accounts:     services.NewAccountService(users, games, prefs, txr, 100),
		games:        services.NewGameService(users, games, achievements, txr, 5),
		currency:     services.NewCurrencyService(users),
		achievements: achievements,
		preferences:  services.NewPreferenceService(prefs),
	}
}
