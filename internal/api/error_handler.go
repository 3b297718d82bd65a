package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/workshop/internal/errors"
	"github.com/vytor/workshop/internal/logger"
	"github.com/vytor/workshop/internal/puzzle"
	"github.com/vytor/workshop/internal/worker"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := toAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, appErr.Status, errorBody(appErr.Code, appErr.Message))
}

// toAppError maps core and worker sentinels onto HTTP errors. Anything
// unrecognised is an internal error.
func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stderrors.Is(err, puzzle.ErrInsufficientFunds):
		return &errors.AppError{Code: errors.ErrCodeInsufficientFunds, Message: "not enough magic dust", Status: http.StatusPaymentRequired, Err: err}
	case stderrors.Is(err, puzzle.ErrSessionNotActive):
		return &errors.AppError{Code: errors.ErrCodeConflict, Message: "no puzzle is running", Status: http.StatusConflict, Err: err}
	case stderrors.Is(err, puzzle.ErrPowerUpUnavailable):
		return &errors.AppError{Code: errors.ErrCodeConflict, Message: "power-up cannot be used right now", Status: http.StatusConflict, Err: err}
	case stderrors.Is(err, puzzle.ErrUnknownPowerUp):
		return errors.NewBadRequestError("unknown power-up")
	case stderrors.Is(err, puzzle.ErrCollaboratorUnavailable),
		stderrors.Is(err, worker.ErrQueueFull),
		stderrors.Is(err, worker.ErrPoolStopped):
		return errors.NewUnavailableError(err)
	}
	return errors.NewInternalError(err)
}

func errorBody(code, message string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
