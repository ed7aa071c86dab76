package staking

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/dto"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/utils"
)

//go:generate mockgen -source=staking.go -destination=mock_staking.go -package=staking

type Service interface {
	Now() time.Time
	GetTiers() domain.StakingTiers
	EstimateReward(amount decimal.Decimal, lockDays int) (*domain.StakeQuote, error)
	GetActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error)
	OpenStake(ctx context.Context, accountID string, amount decimal.Decimal, lockDays int) (*domain.StakePosition, error)
	CloseStake(ctx context.Context, accountID, positionID string) (*domain.StakeClosure, error)
}

type StakingHandler struct {
	stakingService Service
}

func New(stakingService Service) *StakingHandler {
	return &StakingHandler{
		stakingService: stakingService,
	}
}

func (h *StakingHandler) Tiers(w http.ResponseWriter, _ *http.Request) {
	tiers := h.stakingService.GetTiers()
	response := make([]dto.TierDTO, len(tiers))
	for i, t := range tiers {
		response[i] = dto.NewTierDTO(t)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Estimate quotes the reward for ?amount=&days= without touching any balance.
func (h *StakingHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid days")
		return
	}
	quote, err := h.stakingService.EstimateReward(amount, days)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewQuoteDTO(quote))
}

func (h *StakingHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	positions, err := h.stakingService.GetActivePositions(r.Context(), accountID)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	now := h.stakingService.Now()
	response := make([]dto.PositionDTO, len(positions))
	for i, p := range positions {
		response[i] = dto.NewPositionDTO(p, now)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *StakingHandler) Open(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	var req dto.OpenStakeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	position, err := h.stakingService.OpenStake(r.Context(), accountID, req.Amount, req.LockDays)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewPositionDTO(*position, h.stakingService.Now()))
}

func (h *StakingHandler) Close(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	closure, err := h.stakingService.CloseStake(r.Context(), accountID, chi.URLParam(r, "positionID"))
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewClosureDTO(closure, h.stakingService.Now()))
}
