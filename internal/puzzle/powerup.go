package puzzle

import (
	"context"
	"fmt"

	"github.com/vytor/workshop/internal/models"
)

// Activation describes a power-up that was paid for and applied.
type Activation struct {
	Kind            PowerUpKind `json:"kind"`
	Cost            int         `json:"cost"`
	DurationSeconds int         `json:"duration"`
	Balance         int         `json:"balance"`
	HintIndex       *int        `json:"hintIndex,omitempty"`
}

// PowerUpController charges a player's wallet and applies power-ups to
// their session. Like Session it must be driven from a single goroutine.
type PowerUpController struct {
	session *Session
	wallet  Wallet
	userID  int64
}

func NewPowerUpController(session *Session, wallet Wallet, userID int64) *PowerUpController {
	return &PowerUpController{session: session, wallet: wallet, userID: userID}
}

// Activate checks that kind applies to the session, spends its cost and
// applies it. Nothing is charged when the check fails, and nothing is
// applied when the spend is refused.
func (c *PowerUpController) Activate(ctx context.Context, kind PowerUpKind) (*Activation, error) {
	spec, ok := LookupPowerUp(kind)
	if !ok {
		return nil, ErrUnknownPowerUp
	}
	if err := c.session.checkPowerUp(kind); err != nil {
		return nil, err
	}
	gen := c.session.Generation()

	res, err := c.wallet.SpendCurrency(ctx, models.SpendRequest{UserID: c.userID, Amount: spec.Cost})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollaboratorUnavailable, err)
	}
	if !res.Success {
		return nil, ErrInsufficientFunds
	}

	// The attempt may have ended while the spend was in flight.
	if c.session.Generation() != gen {
		return nil, ErrSessionNotActive
	}
	if err := c.session.checkPowerUp(kind); err != nil {
		return nil, err
	}

	act := c.session.applyPowerUp(spec)
	act.Balance = res.NewBalance
	return act, nil
}

func (c *PowerUpController) ActivateFreeze(ctx context.Context) (*Activation, error) {
	return c.Activate(ctx, Freeze)
}

func (c *PowerUpController) ActivateHint(ctx context.Context) (*Activation, error) {
	return c.Activate(ctx, Hint)
}

func (c *PowerUpController) ActivatePreview(ctx context.Context) (*Activation, error) {
	return c.Activate(ctx, Preview)
}
