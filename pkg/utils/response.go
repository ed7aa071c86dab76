package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

type Response struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to write response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, Response{Error: message})
}

// RespondWithFailure maps an engine error to its HTTP status and writes the
// stable reason code next to the message. Unexpected errors hide their text.
func RespondWithFailure(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
		RespondWithJSON(w, status, Response{Error: "internal server error", Reason: domain.CodeOf(err)})
		return
	}
	RespondWithJSON(w, status, Response{Error: err.Error(), Reason: domain.CodeOf(err)})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownActivity),
		errors.Is(err, domain.ErrRedemptionNotFound),
		errors.Is(err, domain.ErrPositionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusServiceUnavailable
	}
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return http.StatusUnprocessableEntity
	case domain.KindPolicyViolation, domain.KindConflict:
		return http.StatusConflict
	case domain.KindInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
