package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/upfsim/internal/simulator/config"
)

func seed(n int64) *int64 { return &n }

func baseConfig() *config.Config {
	return &config.Config{
		RunID:             1,
		UPFCase:           1,
		MaxUPFs:           2,
		MinUPFs:           1,
		MaxSessionsPerUPF: 2,
		ScaleOutThreshold: 0,
		ScaleInThreshold:  0,
		SimulationTimeMS:  10,
		ArrivalRate:       1000,
		Mu:                1000,
		MigrationCase:     2,
		Seed:              seed(1),
	}
}

// S1: at least one scale-out event occurs, final num_upfs == 1.
func TestS1ScaleOutThenDrainToOne(t *testing.T) {
	cfg := baseConfig()
	res, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Summary.Deployed, 1)
}

// S2: a singleton server with a much slower service rate than arrival rate
// rejects most arrivals after the first.
func TestS2SingletonRejectsUnderLoad(t *testing.T) {
	cfg := &config.Config{
		RunID:             2,
		UPFCase:           1,
		MaxUPFs:           1,
		MinUPFs:           1,
		MaxSessionsPerUPF: 1,
		SimulationTimeMS:  100,
		ArrivalRate:       1000,
		Mu:                100,
		MigrationCase:     1,
		Seed:              seed(1),
	}
	res, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Greater(t, res.Summary.Rejected, 0)
}

// S3: migration regime 3 runs without error across a longer horizon and
// num_upfs stays within [1, max_upfs].
func TestS3MigrationRegimeStaysWithinEnvelope(t *testing.T) {
	cfg := &config.Config{
		RunID:             3,
		UPFCase:           2,
		MaxUPFs:           4,
		MinUPFs:           1,
		MaxSessionsPerUPF: 3,
		ScaleOutThreshold: 1,
		ScaleInThreshold:  2,
		SimulationTimeMS:  1000,
		ArrivalRate:       5,
		Mu:                10,
		MigrationCase:     3,
		Seed:              seed(42),
	}
	res, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Summary.Deployed, cfg.MaxUPFs*4) // generous: Deployed counts ever-launched, not live

	// The first sample is taken at t=0 before the first UPF is launched;
	// every later sample must lie within [1, max_upfs].
	require.Greater(t, len(res.Trace.DeployedUPFs), 1)
	for _, s := range res.Trace.DeployedUPFs[1:] {
		assert.GreaterOrEqual(t, s.Value, 1)
		assert.LessOrEqual(t, s.Value, cfg.MaxUPFs)
	}
}

// S4 / P5: two identical runs with the same seed produce identical
// rejected_sessions and utilization traces.
func TestS4IdenticalSeedsProduceIdenticalTraces(t *testing.T) {
	cfg1 := baseConfig()
	cfg2 := baseConfig()

	res1, err := New(nil).Run(context.Background(), cfg1)
	require.NoError(t, err)
	res2, err := New(nil).Run(context.Background(), cfg2)
	require.NoError(t, err)

	assert.Equal(t, res1.Trace.RejectedSessions, res2.Trace.RejectedSessions)
	assert.Equal(t, res1.Trace.Utilization, res2.Trace.Utilization)
	assert.Equal(t, res1.Summary, res2.Summary)
}

// s5Config gives the concentration effect room to show up: enough UPF
// headroom and concurrent demand that least-loaded's even spread forces
// more instances to fill up (and more scale-outs) than most-loaded's
// bin-packing onto as few instances as possible. Migration is disabled so
// the comparison isolates the placement policy.
func s5Config() *config.Config {
	return &config.Config{
		RunID:             5,
		MaxUPFs:           6,
		MinUPFs:           1,
		MaxSessionsPerUPF: 4,
		ScaleOutThreshold: 0,
		ScaleInThreshold:  0,
		SimulationTimeMS:  500,
		ArrivalRate:       50,
		Mu:                5,
		MigrationCase:     1,
		Seed:              seed(7),
	}
}

// S5: most-loaded placement concentrates load and should produce strictly
// fewer scale-outs (here: fewer UPFs ever launched) than least-loaded on
// the same seed / arrival stream.
func TestS5MostLoadedLaunchesFewerThanLeastLoaded(t *testing.T) {
	leastLoaded := s5Config()
	leastLoaded.UPFCase = 2
	mostLoaded := s5Config()
	mostLoaded.UPFCase = 3

	resLeast, err := New(nil).Run(context.Background(), leastLoaded)
	require.NoError(t, err)
	resMost, err := New(nil).Run(context.Background(), mostLoaded)
	require.NoError(t, err)

	assert.Less(t, resMost.Summary.Deployed, resLeast.Summary.Deployed)
}

// P3: session_counter == accepted + rejected at end of run.
func TestP3AcceptedPlusRejectedEqualsTotal(t *testing.T) {
	cfg := baseConfig()
	res, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, res.Summary.Total, res.Summary.Accepted+res.Summary.Rejected)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.ArrivalRate = 0
	_, err := New(nil).Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	cfg := baseConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Run(ctx, cfg)
	assert.Error(t, err)
}
