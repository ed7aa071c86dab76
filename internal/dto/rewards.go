package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

type RewardDTO struct {
	ID        string          `json:"id" example:"coffee-voucher"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand,omitempty"`
	Category  string          `json:"category,omitempty"`
	Cost      decimal.Decimal `json:"cost" example:"300"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Remaining *int            `json:"remaining,omitempty"`
}

type RedemptionDTO struct {
	ID          string          `json:"id"`
	RewardID    string          `json:"reward_id"`
	PointsSpent decimal.Decimal `json:"points_spent"`
	Code        string          `json:"code" example:"BEANST-123456789015"`
	RedeemedAt  time.Time       `json:"redeemed_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	Used        bool            `json:"used"`
	UsedAt      *time.Time      `json:"used_at,omitempty"`
}

func NewRewardDTO(r domain.Reward) RewardDTO {
	dto := RewardDTO{
		ID:        r.ID,
		Name:      r.Name,
		Brand:     r.Brand,
		Category:  r.Category,
		Cost:      r.Cost,
		ExpiresAt: r.ExpiresAt,
	}
	if r.MaxRedemptions > 0 {
		remaining := r.MaxRedemptions - r.CurrentRedemptions
		dto.Remaining = &remaining
	}
	return dto
}

func NewRedemptionDTO(r *domain.Redemption) RedemptionDTO {
	return RedemptionDTO{
		ID:          r.ID,
		RewardID:    r.RewardID,
		PointsSpent: r.PointsSpent,
		Code:        r.Code,
		RedeemedAt:  r.RedeemedAt,
		ExpiresAt:   r.ExpiresAt,
		Used:        r.Used,
		UsedAt:      r.UsedAt,
	}
}
