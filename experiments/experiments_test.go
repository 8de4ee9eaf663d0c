package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"planner/experiments/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows)
}

func TestRunHorizonExperiment(t *testing.T) {
	reg := prometheus.NewRegistry()
	settings := Settings{
		Games:    2,
		Parallel: 2,
		MaxSteps: 6,
		BaseDir:  t.TempDir(),
		Seed:     1,
		Episodes: 20,
		Horizons: []int{1, 3},
		Series:   metrics.NewSeries(reg),
	}

	summaries, err := RunHorizonExperiment(context.Background(), settings)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	for i, summary := range summaries {
		require.Equal(t, i+1, summary.Config.ID)
		require.Equal(t, settings.Horizons[i], summary.Config.Horizon)
		require.Equal(t, 20, summary.Config.Episodes)
		require.Equal(t, 2, summary.Games)
		require.GreaterOrEqual(t, summary.Mean, 0.0)
		require.GreaterOrEqual(t, summary.StdDev, 0.0)
		require.GreaterOrEqual(t, summary.MaxTile, uint32(2))
	}

	dir := summaries[0].Dir
	require.Equal(t, filepath.Join(settings.BaseDir, "horizon"), filepath.Dir(dir))
	require.Equal(t, 3, countRows(t, filepath.Join(dir, "agent_configs.csv")))
	require.Equal(t, 5, countRows(t, filepath.Join(dir, "game_records.csv")))
	require.Greater(t, countRows(t, filepath.Join(dir, "move_records.csv")), 1)

	families, err := reg.Gather()
	require.NoError(t, err)
	episodes := 0.0
	for _, family := range families {
		if family.GetName() == "planner_search_episodes_total" {
			episodes = family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	require.Greater(t, episodes, 0.0, "Every search should feed the shared series")
}

func TestRunEpisodeExperiment(t *testing.T) {
	summaries, err := RunEpisodeExperiment(context.Background(), Settings{
		Games:       1,
		MaxSteps:    4,
		BaseDir:     t.TempDir(),
		Horizon:     5,
		EpisodeRuns: []int{5},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 5, summaries[0].Config.Episodes)
	require.Equal(t, 5, summaries[0].Config.Horizon)
	require.Equal(t, 0.0, summaries[0].StdDev, "A single game has no spread")
}

func TestRunExperimentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunEpisodeExperiment(ctx, Settings{Games: 1, BaseDir: t.TempDir(), EpisodeRuns: []int{5}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDeriveSeeds(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 0x5eed, 1 << 63} {
		seeds := DeriveSeeds(seed)
		require.Equal(t, seed, seeds.Search)

		streams := []uint64{seeds.Search, seeds.Rollout, seeds.Environment, seeds.Sampling}
		firsts := map[uint64]bool{}
		for _, s := range streams {
			firsts[rand.New(rand.NewSource(s)).Uint64()] = true
		}
		require.Len(t, firsts, len(streams), "Every stream should draw a different sequence for seed %d", seed)
	}
}
