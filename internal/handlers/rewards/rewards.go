package rewards

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/dto"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/utils"
)

//go:generate mockgen -source=rewards.go -destination=mock_rewards.go -package=rewards

type Service interface {
	GetAvailableRewards(ctx context.Context) ([]domain.Reward, error)
	RedeemReward(ctx context.Context, accountID, rewardID string) (*domain.Redemption, error)
	GetRedemptions(ctx context.Context, accountID string) ([]domain.Redemption, error)
	UseRedemption(ctx context.Context, accountID, redemptionID string) (*domain.Redemption, error)
}

type RewardsHandler struct {
	rewardsService Service
}

func New(rewardsService Service) *RewardsHandler {
	return &RewardsHandler{
		rewardsService: rewardsService,
	}
}

// ListRewards is public: it shows the redeemable catalog without balances.
func (h *RewardsHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewardsService.GetAvailableRewards(r.Context())
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	response := make([]dto.RewardDTO, len(rewards))
	for i, reward := range rewards {
		response[i] = dto.NewRewardDTO(reward)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *RewardsHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	redemption, err := h.rewardsService.RedeemReward(r.Context(), accountID, chi.URLParam(r, "rewardID"))
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dto.NewRedemptionDTO(redemption))
}

func (h *RewardsHandler) Redemptions(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	redemptions, err := h.rewardsService.GetRedemptions(r.Context(), accountID)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	if len(redemptions) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	response := make([]dto.RedemptionDTO, len(redemptions))
	for i := range redemptions {
		response[i] = dto.NewRedemptionDTO(&redemptions[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *RewardsHandler) UseRedemption(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	redemption, err := h.rewardsService.UseRedemption(r.Context(), accountID, chi.URLParam(r, "redemptionID"))
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewRedemptionDTO(redemption))
}
