package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.NotEmpty(t, c.Activities)
	assert.Equal(t, "sign-up", c.Activities[0].ID)

	var checkIn bool
	for _, a := range c.Activities {
		if a.ID == "daily-check-in" {
			checkIn = true
			assert.True(t, a.Points.Equal(decimal.NewFromInt(50)))
			assert.Equal(t, 1, a.MaxPerDay)
		}
	}
	assert.True(t, checkIn)

	require.Len(t, c.Tiers, 4)
	assert.Equal(t, "bronze", c.Tiers[0].Name)
	assert.Equal(t, "platinum", c.Tiers[3].Name)
	assert.True(t, c.Tiers[1].APY.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, 90, c.Tiers[1].MinLockDays)

	assert.Equal(t, 30, c.LockBonus.StepDays)
	assert.True(t, c.LockBonus.StepAPY.Equal(decimal.RequireFromString("0.5")))

	require.NotEmpty(t, c.Bonuses)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, c.Bonuses[0].Weekdays)

	for _, r := range c.Rewards {
		assert.True(t, r.Active, r.ID)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "minimal",
			data: `
activities:
  - id: a
    points: 5
tiers:
  - name: t
    min_amount: 10
    apy: 1
`,
		},
		{
			name: "duplicate activity",
			data: `
activities:
  - id: a
    points: 5
  - id: a
    points: 5
`,
			wantErr: true,
		},
		{
			name: "non-positive points",
			data: `
activities:
  - id: a
    points: 0
`,
			wantErr: true,
		},
		{
			name: "fractional points",
			data: `
activities:
  - id: a
    points: 2.5
`,
			wantErr: true,
		},
		{
			name: "fractional addend",
			data: `
bonuses:
  - name: b
    addend: 0.5
`,
			wantErr: true,
		},
		{
			name: "fractional multiplier",
			data: `
activities:
  - id: a
    points: 25
bonuses:
  - name: b
    multiplier: 1.333
`,
		},
		{
			name: "fractional cost",
			data: `
rewards:
  - id: r
    cost: 99.9
`,
			wantErr: true,
		},
		{
			name: "bonus for unknown activity",
			data: `
bonuses:
  - name: b
    activity: missing
`,
			wantErr: true,
		},
		{
			name: "unknown weekday",
			data: `
bonuses:
  - name: b
    weekdays: [someday]
`,
			wantErr: true,
		},
		{
			name: "reward without cost",
			data: `
rewards:
  - id: r
`,
			wantErr: true,
		},
		{
			name:    "broken yaml",
			data:    "activities: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCatalog)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse_ActivityNameDefaultsToID(t *testing.T) {
	c, err := Parse([]byte("activities:\n  - id: scan\n    points: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "scan", c.Activities[0].Name)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tiers:\n  - name: b\n    min_amount: 1\n    apy: 2\n  - name: a\n    min_amount: 0.5\n    apy: 1\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Tiers, 2)
	assert.Equal(t, "a", c.Tiers[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	c, err = Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Rewards)
}
