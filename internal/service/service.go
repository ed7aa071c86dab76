package service

import (
	"time"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
	"github.com/GlebRadaev/rewardsengine/internal/handlers/auth"
	"github.com/GlebRadaev/rewardsengine/internal/keylock"
	"github.com/GlebRadaev/rewardsengine/internal/notifier"
	"github.com/GlebRadaev/rewardsengine/internal/repo"
	"github.com/GlebRadaev/rewardsengine/internal/service/authservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/earnservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/ledgerservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/rewardservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/stakeservice"
	pkgauth "github.com/GlebRadaev/rewardsengine/pkg/auth"
	"github.com/GlebRadaev/rewardsengine/pkg/clock"
	"github.com/GlebRadaev/rewardsengine/pkg/idgen"
)

type Deps struct {
	Catalog     domain.Catalog
	Clock       clock.Clock
	IDs         idgen.Generator
	LockTimeout time.Duration
	Location    *time.Location
	Notifier    notifier.Notifier
	JWT         pkgauth.JWTServiceInterface
}

type Services struct {
	AuthService auth.Service
	Engine      *Engine
}

func New(repo *repo.Repositories, deps Deps) *Services {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.IDs == nil {
		deps.IDs = idgen.UUID{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notifier.Nop{}
	}
	locks := keylock.New(deps.LockTimeout, keylock.WithTimeoutError(domain.ErrLockTimeout))

	ledgerService := ledgerservice.New(repo.AccountRepo, repo.EntryRepo, repo.TXManager, locks, deps.Clock, deps.IDs)
	earnService := earnservice.New(deps.Catalog.Activities, deps.Catalog.Bonuses, earnservice.Deps{
		Completions: repo.CompletionRepo,
		Ledger:      ledgerService,
		TXManager:   repo.TXManager,
		Locks:       locks,
		Clock:       deps.Clock,
		Location:    deps.Location,
		Notifier:    deps.Notifier,
	})
	rewardService := rewardservice.New(rewardservice.Deps{
		RewardRepo:     repo.RewardRepo,
		RedemptionRepo: repo.RedemptionRepo,
		Ledger:         ledgerService,
		TXManager:      repo.TXManager,
		Locks:          locks,
		Clock:          deps.Clock,
		IDs:            deps.IDs,
		Notifier:       deps.Notifier,
	})
	stakeService := stakeservice.New(deps.Catalog.Tiers, deps.Catalog.LockBonus, stakeservice.Deps{
		PositionRepo: repo.PositionRepo,
		Ledger:       ledgerService,
		TXManager:    repo.TXManager,
		Locks:        locks,
		Clock:        deps.Clock,
		IDs:          deps.IDs,
		Notifier:     deps.Notifier,
	})
	authService := authservice.New(repo.UserRepo, earnService, &pkgauth.HashService{}, deps.JWT, deps.Clock, deps.IDs)

	return &Services{
		AuthService: authService,
		Engine: &Engine{
			ledger:  ledgerService,
			earn:    earnService,
			rewards: rewardService,
			staking: stakeService,
			catalog: deps.Catalog,
			clock:   deps.Clock,
		},
	}
}
