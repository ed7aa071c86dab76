package points

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/dto"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/utils"
)

//go:generate mockgen -source=points.go -destination=mock_points.go -package=points

type Service interface {
	Now() time.Time
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	GetHistory(ctx context.Context, accountID string) ([]domain.LedgerEntry, error)
	GetAvailableActivities(ctx context.Context, accountID string) ([]domain.ActivityStatus, error)
	GetActivePositions(ctx context.Context, accountID string) ([]domain.StakePosition, error)
	GrantPoints(ctx context.Context, accountID, activityID string, metadata domain.Metadata) (*domain.Grant, error)
}

type PointsHandler struct {
	pointsService Service
}

func New(pointsService Service) *PointsHandler {
	return &PointsHandler{
		pointsService: pointsService,
	}
}

func (h *PointsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	balance, err := h.pointsService.GetBalance(r.Context(), accountID)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{Balance: balance})
}

// GetHistory lists ledger entries oldest first. An empty ledger answers 204.
func (h *PointsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	entries, err := h.pointsService.GetHistory(r.Context(), accountID)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	if len(entries) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	response := make([]dto.LedgerEntryDTO, len(entries))
	for i, e := range entries {
		response[i] = dto.NewLedgerEntryDTO(e)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func (h *PointsHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	statuses, err := h.pointsService.GetAvailableActivities(r.Context(), accountID)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, activityDTOs(statuses))
}

// Grant records a completion of the activity named in the path. The body is
// optional and may carry string metadata for the ledger entry.
func (h *PointsHandler) Grant(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	var req dto.GrantRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	grant, err := h.pointsService.GrantPoints(r.Context(), accountID, chi.URLParam(r, "activityID"), req.Metadata)
	if err != nil {
		utils.RespondWithFailure(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewGrantResponseDTO(grant))
}

// Summary gathers balance, activities and positions concurrently.
func (h *PointsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	accountID, ok := auth.RequestAccountID(w, r)
	if !ok {
		return
	}
	var (
		balance   decimal.Decimal
		statuses  []domain.ActivityStatus
		positions []domain.StakePosition
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		balance, err = h.pointsService.GetBalance(ctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = h.pointsService.GetAvailableActivities(ctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		positions, err = h.pointsService.GetActivePositions(ctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.RespondWithFailure(w, err)
		return
	}

	now := h.pointsService.Now()
	resp := dto.SummaryResponseDTO{
		Balance:    balance,
		Staked:     decimal.Zero,
		Activities: activityDTOs(statuses),
		Positions:  make([]dto.PositionDTO, len(positions)),
	}
	for i, p := range positions {
		resp.Staked = resp.Staked.Add(p.Principal)
		resp.Positions[i] = dto.NewPositionDTO(p, now)
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func activityDTOs(statuses []domain.ActivityStatus) []dto.ActivityDTO {
	out := make([]dto.ActivityDTO, len(statuses))
	for i, s := range statuses {
		out[i] = dto.NewActivityDTO(s)
	}
	return out
}
