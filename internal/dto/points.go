package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"1029.59"`
}

type LedgerEntryDTO struct {
	ID           string            `json:"id"`
	Kind         string            `json:"kind" example:"earned"`
	Amount       decimal.Decimal   `json:"amount" example:"50"`
	BalanceAfter decimal.Decimal   `json:"balance_after" example:"150"`
	Source       string            `json:"source" example:"Daily check-in"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type ActivityDTO struct {
	ID              string          `json:"id" example:"daily-check-in"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Points          decimal.Decimal `json:"points"`
	Repeatable      bool            `json:"repeatable"`
	CooldownMinutes int             `json:"cooldown_minutes,omitempty"`
	MaxPerDay       int             `json:"max_per_day,omitempty"`
	CanEarnNow      bool            `json:"can_earn_now"`
	Reason          string          `json:"reason,omitempty" example:"cooldown_active"`
	Message         string          `json:"message,omitempty"`
	PointsNow       decimal.Decimal `json:"points_now"`
}

type GrantRequestDTO struct {
	Metadata map[string]string `json:"metadata"`
}

type BonusDTO struct {
	Rule   string          `json:"rule"`
	Points decimal.Decimal `json:"points"`
}

type GrantResponseDTO struct {
	ActivityID string          `json:"activity_id"`
	Base       decimal.Decimal `json:"base"`
	Bonuses    []BonusDTO      `json:"bonuses,omitempty"`
	Points     decimal.Decimal `json:"points"`
	Balance    decimal.Decimal `json:"balance"`
	EntryID    string          `json:"entry_id"`
}

type SummaryResponseDTO struct {
	Balance    decimal.Decimal `json:"balance"`
	Staked     decimal.Decimal `json:"staked"`
	Activities []ActivityDTO   `json:"activities"`
	Positions  []PositionDTO   `json:"positions"`
}

func NewLedgerEntryDTO(e domain.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:           e.ID,
		Kind:         string(e.Kind),
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		Source:       e.Source,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
}

func NewActivityDTO(s domain.ActivityStatus) ActivityDTO {
	a := s.Activity
	return ActivityDTO{
		ID:              a.ID,
		Name:            a.Name,
		Description:     a.Description,
		Category:        a.Category,
		Points:          a.Points,
		Repeatable:      a.Repeatable,
		CooldownMinutes: a.CooldownMinutes,
		MaxPerDay:       a.MaxPerDay,
		CanEarnNow:      s.CanEarnNow,
		Reason:          s.Reason,
		Message:         s.Message,
		PointsNow:       s.PointsNow,
	}
}

func NewGrantResponseDTO(g *domain.Grant) GrantResponseDTO {
	resp := GrantResponseDTO{
		ActivityID: g.ActivityID,
		Base:       g.Base,
		Points:     g.Points,
	}
	for _, b := range g.Bonuses {
		resp.Bonuses = append(resp.Bonuses, BonusDTO{Rule: b.Rule, Points: b.Points})
	}
	if g.Entry != nil {
		resp.Balance = g.Entry.BalanceAfter
		resp.EntryID = g.Entry.ID
	}
	return resp
}
