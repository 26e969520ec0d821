package runner

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwise-mfg/eukodyne-cesmii/internal/model"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeGen struct {
	calls atomic.Int32
}

func (g *fakeGen) Generate() model.WorkOrder {
	n := g.calls.Add(1)
	return model.WorkOrder{
		WorkOrderNumber: 100000 + int(n) - 1,
		ProductName:     "Product A",
		Quantity:        decimal.NewFromInt(60),
		Weight:          decimal.NewFromInt(120),
	}
}

type fakePub struct {
	connectOK   bool
	publishOK   bool
	connects    atomic.Int32
	publishes   atomic.Int32
	disconnects atomic.Int32
}

func (p *fakePub) Connect() bool {
	p.connects.Add(1)
	return p.connectOK
}

func (p *fakePub) Publish(model.WorkOrder) bool {
	p.publishes.Add(1)
	return p.publishOK
}

func (p *fakePub) Disconnect() {
	p.disconnects.Add(1)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestRunConnectFailureIsFatal(t *testing.T) {
	pub := &fakePub{connectOK: false}
	r := New(&fakeGen{}, pub, time.Millisecond)

	err := r.Run(context.Background())

	assert.ErrorIs(t, err, ErrConnect)
	assert.Equal(t, int32(1), pub.connects.Load(), "no connect retry at startup")
	assert.Zero(t, pub.publishes.Load(), "no tick may run without a connection")
}

func TestRunCancelMidSleepStopsBeforeNextTick(t *testing.T) {
	pub := &fakePub{connectOK: true, publishOK: true}
	gen := &fakeGen{}
	r := New(gen, pub, time.Hour) // sleep long enough that cancel always lands mid-sleep

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	waitFor(t, func() bool { return pub.publishes.Load() == 1 })
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}

	assert.Equal(t, int32(1), pub.publishes.Load(), "tick N+1 must never start")
	assert.Equal(t, int32(1), pub.disconnects.Load(), "disconnect must run exactly once")
}

func TestRunContinuesPastFailedPublish(t *testing.T) {
	pub := &fakePub{connectOK: true, publishOK: false}
	gen := &fakeGen{}
	r := New(gen, pub, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Several ticks despite every publish failing
	waitFor(t, func() bool { return pub.publishes.Load() >= 3 })
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, pub.publishes.Load(), gen.calls.Load(), "one publish attempt per generated order")
	assert.Equal(t, int32(1), pub.disconnects.Load())
}

func TestRunCancelledBeforeFirstTick(t *testing.T) {
	pub := &fakePub{connectOK: true, publishOK: true}
	r := New(&fakeGen{}, pub, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, r.Run(ctx))
	assert.Zero(t, pub.publishes.Load())
	assert.Equal(t, int32(1), pub.disconnects.Load(), "disconnect runs even when no tick ran")
}
