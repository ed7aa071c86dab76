package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/GlebRadaev/rewardsengine/internal/domain"
)

//go:embed default.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type file struct {
	Activities []activity `yaml:"activities"`
	Bonuses    []bonus    `yaml:"bonuses"`
	Rewards    []reward   `yaml:"rewards"`
	Tiers      []tier     `yaml:"tiers"`
	LockBonus  lockBonus  `yaml:"lock_bonus"`
}

type activity struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Category        string          `yaml:"category"`
	Points          decimal.Decimal `yaml:"points"`
	Repeatable      bool            `yaml:"repeatable"`
	CooldownMinutes int             `yaml:"cooldown_minutes"`
	MaxPerDay       int             `yaml:"max_per_day"`
}

type bonus struct {
	Name       string          `yaml:"name"`
	Category   string          `yaml:"category"`
	Activity   string          `yaml:"activity"`
	Weekdays   []string        `yaml:"weekdays"`
	FirstOfDay bool            `yaml:"first_of_day"`
	Multiplier decimal.Decimal `yaml:"multiplier"`
	Addend     decimal.Decimal `yaml:"addend"`
}

type reward struct {
	ID               string          `yaml:"id"`
	Name             string          `yaml:"name"`
	Brand            string          `yaml:"brand"`
	Category         string          `yaml:"category"`
	Cost             decimal.Decimal `yaml:"cost"`
	ExpiresAt        *time.Time      `yaml:"expires_at"`
	Inactive         bool            `yaml:"inactive"`
	MaxRedemptions   int             `yaml:"max_redemptions"`
	CodeValidityDays int             `yaml:"code_validity_days"`
}

type tier struct {
	Name        string          `yaml:"name"`
	MinAmount   decimal.Decimal `yaml:"min_amount"`
	APY         decimal.Decimal `yaml:"apy"`
	MinLockDays int             `yaml:"min_lock_days"`
}

type lockBonus struct {
	StepDays int             `yaml:"step_days"`
	StepAPY  decimal.Decimal `yaml:"step_apy"`
	MaxAPY   decimal.Decimal `yaml:"max_apy"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Default returns the catalog built into the binary.
func Default() (domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, falling back to the built-in one when path is empty.
func Load(path string) (domain.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (domain.Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: decode: %w", ErrInvalidCatalog, err)
	}
	return f.toDomain()
}

func (f file) toDomain() (domain.Catalog, error) {
	var c domain.Catalog
	seen := make(map[string]bool)
	for _, a := range f.Activities {
		if a.ID == "" || seen[a.ID] {
			return c, fmt.Errorf("%w: activity id %q is empty or duplicated", ErrInvalidCatalog, a.ID)
		}
		if !a.Points.IsPositive() || !whole(a.Points) || a.CooldownMinutes < 0 || a.MaxPerDay < 0 {
			return c, fmt.Errorf("%w: activity %q has invalid limits", ErrInvalidCatalog, a.ID)
		}
		seen[a.ID] = true
		name := a.Name
		if name == "" {
			name = a.ID
		}
		c.Activities = append(c.Activities, domain.Activity{
			ID:              a.ID,
			Name:            name,
			Description:     a.Description,
			Category:        a.Category,
			Points:          a.Points,
			Repeatable:      a.Repeatable,
			CooldownMinutes: a.CooldownMinutes,
			MaxPerDay:       a.MaxPerDay,
		})
	}

	for _, b := range f.Bonuses {
		if b.Activity != "" && !seen[b.Activity] {
			return c, fmt.Errorf("%w: bonus %q references unknown activity %q", ErrInvalidCatalog, b.Name, b.Activity)
		}
		if b.Addend.IsNegative() || !whole(b.Addend) || b.Multiplier.IsNegative() {
			return c, fmt.Errorf("%w: bonus %q has invalid amounts", ErrInvalidCatalog, b.Name)
		}
		rule := domain.BonusRule{
			Name:       b.Name,
			Category:   b.Category,
			ActivityID: b.Activity,
			FirstOfDay: b.FirstOfDay,
			Multiplier: b.Multiplier,
			Addend:     b.Addend,
		}
		for _, d := range b.Weekdays {
			wd, ok := weekdays[strings.ToLower(d)]
			if !ok {
				return c, fmt.Errorf("%w: bonus %q has unknown weekday %q", ErrInvalidCatalog, b.Name, d)
			}
			rule.Weekdays = append(rule.Weekdays, wd)
		}
		c.Bonuses = append(c.Bonuses, rule)
	}

	rewards := make(map[string]bool)
	for _, r := range f.Rewards {
		if r.ID == "" || rewards[r.ID] {
			return c, fmt.Errorf("%w: reward id %q is empty or duplicated", ErrInvalidCatalog, r.ID)
		}
		if !r.Cost.IsPositive() || !whole(r.Cost) || r.MaxRedemptions < 0 || r.CodeValidityDays < 0 {
			return c, fmt.Errorf("%w: reward %q has invalid terms", ErrInvalidCatalog, r.ID)
		}
		rewards[r.ID] = true
		c.Rewards = append(c.Rewards, domain.Reward{
			ID:               r.ID,
			Name:             r.Name,
			Brand:            r.Brand,
			Category:         r.Category,
			Cost:             r.Cost,
			ExpiresAt:        r.ExpiresAt,
			Active:           !r.Inactive,
			MaxRedemptions:   r.MaxRedemptions,
			CodeValidityDays: r.CodeValidityDays,
		})
	}

	for _, t := range f.Tiers {
		if t.Name == "" || !t.MinAmount.IsPositive() || t.APY.IsNegative() || t.MinLockDays < 0 {
			return c, fmt.Errorf("%w: tier %q has invalid terms", ErrInvalidCatalog, t.Name)
		}
		c.Tiers = append(c.Tiers, domain.StakingTier{
			Name:        t.Name,
			MinAmount:   t.MinAmount,
			APY:         t.APY,
			MinLockDays: t.MinLockDays,
		})
	}
	c.Tiers = c.Tiers.Sorted()

	c.LockBonus = domain.LockBonus{
		StepDays: f.LockBonus.StepDays,
		StepAPY:  f.LockBonus.StepAPY,
		MaxAPY:   f.LockBonus.MaxAPY,
	}
	return c, nil
}

// whole reports whether d has no fractional part. Catalog amounts are whole points.
func whole(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}
