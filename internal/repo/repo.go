package repo

import (
	"github.com/GlebRadaev/rewardsengine/internal/pg"
	accountrepo "github.com/GlebRadaev/rewardsengine/internal/repo/account-repo"
	activityrepo "github.com/GlebRadaev/rewardsengine/internal/repo/activity-repo"
	entryrepo "github.com/GlebRadaev/rewardsengine/internal/repo/entry-repo"
	memoryrepo "github.com/GlebRadaev/rewardsengine/internal/repo/memory-repo"
	redemptionrepo "github.com/GlebRadaev/rewardsengine/internal/repo/redemption-repo"
	rewardrepo "github.com/GlebRadaev/rewardsengine/internal/repo/reward-repo"
	stakerepo "github.com/GlebRadaev/rewardsengine/internal/repo/stake-repo"
	userrepo "github.com/GlebRadaev/rewardsengine/internal/repo/user-repo"
	"github.com/GlebRadaev/rewardsengine/internal/service/authservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/earnservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/ledgerservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/rewardservice"
	"github.com/GlebRadaev/rewardsengine/internal/service/stakeservice"
)

type Repositories struct {
	UserRepo       authservice.Repo
	AccountRepo    ledgerservice.AccountRepo
	EntryRepo      ledgerservice.EntryRepo
	CompletionRepo earnservice.CompletionRepo
	RewardRepo     rewardservice.RewardRepo
	RedemptionRepo rewardservice.RedemptionRepo
	PositionRepo   stakeservice.PositionRepo
	TXManager      pg.TXManager
}

// New builds PostgreSQL-backed repositories. conn must route queries to the
// transaction carried in the context.
func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:       userrepo.New(conn),
		AccountRepo:    accountrepo.New(conn),
		EntryRepo:      entryrepo.New(conn),
		CompletionRepo: activityrepo.New(conn),
		RewardRepo:     rewardrepo.New(conn),
		RedemptionRepo: redemptionrepo.New(conn),
		PositionRepo:   stakerepo.New(conn),
		TXManager:      txManager,
	}
}

// NewMemory builds repositories over a single in-process store.
func NewMemory() *Repositories {
	store := memoryrepo.New()
	return &Repositories{
		UserRepo:       store,
		AccountRepo:    store,
		EntryRepo:      store,
		CompletionRepo: store,
		RewardRepo:     store,
		RedemptionRepo: store,
		PositionRepo:   store,
		TXManager:      store.TXManager(),
	}
}
