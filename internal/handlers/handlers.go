package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandlers "github.com/GlebRadaev/rewardsengine/internal/handlers/auth"
	pointshandlers "github.com/GlebRadaev/rewardsengine/internal/handlers/points"
	rewardshandlers "github.com/GlebRadaev/rewardsengine/internal/handlers/rewards"
	stakinghandlers "github.com/GlebRadaev/rewardsengine/internal/handlers/staking"
	"github.com/GlebRadaev/rewardsengine/internal/service"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type PointsHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetActivities(w http.ResponseWriter, r *http.Request)
	Grant(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type RewardsHandler interface {
	ListRewards(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
	Redemptions(w http.ResponseWriter, r *http.Request)
	UseRedemption(w http.ResponseWriter, r *http.Request)
}

type StakingHandler interface {
	Tiers(w http.ResponseWriter, r *http.Request)
	Estimate(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
	Open(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	PointsHandler  PointsHandler
	RewardsHandler RewardsHandler
	StakingHandler StakingHandler
	jwtService     auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		PointsHandler:  pointshandlers.New(s.Engine),
		RewardsHandler: rewardshandlers.New(s.Engine),
		StakingHandler: stakinghandlers.New(s.Engine),
		jwtService:     jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/rewards", h.RewardsHandler.ListRewards)
		r.Route("/staking", func(r chi.Router) {
			r.Get("/tiers", h.StakingHandler.Tiers)
			r.Get("/estimate", h.StakingHandler.Estimate)
		})

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware(h.jwtService))
				r.Get("/balance", h.PointsHandler.GetBalance)
				r.Get("/history", h.PointsHandler.GetHistory)
				r.Get("/summary", h.PointsHandler.Summary)
				r.Route("/activities", func(r chi.Router) {
					r.Get("/", h.PointsHandler.GetActivities)
					r.Post("/{activityID}", h.PointsHandler.Grant)
				})
				r.Post("/rewards/{rewardID}/redeem", h.RewardsHandler.Redeem)
				r.Route("/redemptions", func(r chi.Router) {
					r.Get("/", h.RewardsHandler.Redemptions)
					r.Post("/{redemptionID}/use", h.RewardsHandler.UseRedemption)
				})
				r.Route("/stakes", func(r chi.Router) {
					r.Get("/", h.StakingHandler.ListPositions)
					r.Post("/", h.StakingHandler.Open)
					r.Post("/{positionID}/close", h.StakingHandler.Close)
				})
			})
		})
	})

	return r
}
