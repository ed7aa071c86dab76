package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	authhandlers "github.com/GlebRadaev/rewardsengine/internal/handlers/auth"
	"github.com/GlebRadaev/rewardsengine/internal/service"
	"github.com/GlebRadaev/rewardsengine/pkg/auth"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)

	services := &service.Services{
		AuthService: authhandlers.NewMockService(ctrl),
		Engine:      &service.Engine{},
	}

	h := New(services, auth.NewMockJWTServiceInterface(ctrl))
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.PointsHandler)
	assert.NotNil(t, h.RewardsHandler)
	assert.NotNil(t, h.StakingHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockPointsHandler := NewMockPointsHandler(ctrl)
	mockRewardsHandler := NewMockRewardsHandler(ctrl)
	mockStakingHandler := NewMockStakingHandler(ctrl)
	jwtService := auth.NewMockJWTServiceInterface(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockPointsHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	mockPointsHandler.EXPECT().GetHistory(gomock.Any(), gomock.Any()).AnyTimes()
	mockPointsHandler.EXPECT().GetActivities(gomock.Any(), gomock.Any()).AnyTimes()
	mockPointsHandler.EXPECT().Grant(gomock.Any(), gomock.Any()).AnyTimes()
	mockPointsHandler.EXPECT().Summary(gomock.Any(), gomock.Any()).AnyTimes()
	mockRewardsHandler.EXPECT().ListRewards(gomock.Any(), gomock.Any()).AnyTimes()
	mockRewardsHandler.EXPECT().Redeem(gomock.Any(), gomock.Any()).AnyTimes()
	mockRewardsHandler.EXPECT().Redemptions(gomock.Any(), gomock.Any()).AnyTimes()
	mockRewardsHandler.EXPECT().UseRedemption(gomock.Any(), gomock.Any()).AnyTimes()
	mockStakingHandler.EXPECT().Tiers(gomock.Any(), gomock.Any()).AnyTimes()
	mockStakingHandler.EXPECT().Estimate(gomock.Any(), gomock.Any()).AnyTimes()
	mockStakingHandler.EXPECT().ListPositions(gomock.Any(), gomock.Any()).AnyTimes()
	mockStakingHandler.EXPECT().Open(gomock.Any(), gomock.Any()).AnyTimes()
	mockStakingHandler.EXPECT().Close(gomock.Any(), gomock.Any()).AnyTimes()
	jwtService.EXPECT().ValidateToken("good").Return(&auth.Claims{AccountID: "acc-1"}, nil).AnyTimes()
	jwtService.EXPECT().ValidateToken("bad").Return(nil, errors.New("expired")).AnyTimes()

	h := &Handlers{
		AuthHandler:    mockAuthHandler,
		PointsHandler:  mockPointsHandler,
		RewardsHandler: mockRewardsHandler,
		StakingHandler: mockStakingHandler,
		jwtService:     jwtService,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"GET", "/api/rewards", "", http.StatusOK},
		{"GET", "/api/staking/tiers", "", http.StatusOK},
		{"GET", "/api/staking/estimate?amount=1000&days=90", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/api/user/balance", "", http.StatusUnauthorized},
		{"GET", "/api/user/history", "", http.StatusUnauthorized},
		{"GET", "/api/user/summary", "", http.StatusUnauthorized},
		{"GET", "/api/user/activities", "", http.StatusUnauthorized},
		{"POST", "/api/user/activities/daily-check-in", "", http.StatusUnauthorized},
		{"POST", "/api/user/rewards/coffee-voucher/redeem", "", http.StatusUnauthorized},
		{"GET", "/api/user/redemptions", "", http.StatusUnauthorized},
		{"POST", "/api/user/redemptions/r1/use", "", http.StatusUnauthorized},
		{"GET", "/api/user/stakes", "", http.StatusUnauthorized},
		{"POST", "/api/user/stakes", "", http.StatusUnauthorized},
		{"POST", "/api/user/stakes/p1/close", "", http.StatusUnauthorized},
		{"GET", "/api/user/balance", "bad", http.StatusUnauthorized},
		{"GET", "/api/user/balance", "good", http.StatusOK},
		{"POST", "/api/user/activities/daily-check-in", "good", http.StatusOK},
		{"POST", "/api/user/stakes/p1/close", "good", http.StatusOK},
		{"DELETE", "/api/user/stakes", "good", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
