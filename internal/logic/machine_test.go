package logic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cristianszwarc/dishwasher/internal/buzzer"
	"github.com/cristianszwarc/dishwasher/internal/clock"
	"github.com/cristianszwarc/dishwasher/internal/gpio"
)

// newTestPlant wires a plant from fakes, sharing one virtual clock.
func newTestPlant() (Plant, *clock.Fake, *gpio.Fake, *buzzer.Fake) {
	clk := clock.NewFake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	bus := gpio.NewFake(clk)
	ann := buzzer.NewFake()
	p := Plant{Act: bus, Sense: bus, Ann: ann, Clk: clk}
	return p, clk, bus, ann
}

func nopLog() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// script is a Machine built from a list of canned steps.
type script struct {
	name  string
	steps []Step
	calls int
}

func (s *script) Name() string { return s.name }

func (s *script) Tick(now time.Time) Step {
	step := s.steps[s.calls]
	if s.calls < len(s.steps)-1 {
		s.calls++
	}
	return step
}

func TestRunPlaysEffectsBetweenTicks(t *testing.T) {
	p, clk, _, ann := newTestPlant()
	start := clk.Now()

	m := &script{name: "probe", steps: []Step{
		{Outcome: Continue, Effects: Effects{Message: buzzer.MsgWelcome, Wait: time.Second}},
		{Outcome: Continue, Effects: Effects{Chirp: buzzer.ChirpTopUp, Wait: 2 * time.Second}},
		{Outcome: Done},
	}}

	err := run(context.Background(), p, m, nopLog())
	require.NoError(t, err)

	assert.Equal(t, []buzzer.MessageCode{buzzer.MsgWelcome}, ann.Msgs)
	assert.Equal(t, 1, ann.BeepCount(buzzer.ChirpTopUp))
	assert.Equal(t, start.Add(3*time.Second), clk.Now(), "waits add up on the clock")
}

func TestRunReturnsFault(t *testing.T) {
	p, _, _, ann := newTestPlant()

	m := &script{name: "probe", steps: []Step{
		{Outcome: Continue, Effects: Effects{Wait: time.Second}},
		{Outcome: Failed, Fault: &Fault{Code: buzzer.CodeFillTimeout}},
	}}

	err := run(context.Background(), p, m, nopLog())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, buzzer.CodeFillTimeout, fault.Code)
	assert.Empty(t, ann.Errs, "the runner reports faults, it does not signal them")
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	p, clk, _, _ := newTestPlant()
	ctx, cancel := context.WithCancel(context.Background())
	clk.After(30*time.Second, cancel)

	m := &script{name: "probe", steps: []Step{
		{Outcome: Continue, Effects: Effects{Wait: time.Minute}},
	}}

	err := run(ctx, p, m, nopLog())
	require.ErrorIs(t, err, context.Canceled)

	// The sliced sleep notices within one slice of the cancel instant.
	elapsed := clk.Now().Sub(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	assert.Less(t, elapsed, 31*time.Second)
}

func TestFaultError(t *testing.T) {
	f := &Fault{Code: buzzer.CodeHeatTimeout}
	assert.Equal(t, "fault 5: target temperature not reached", f.Error())

	var err error = f
	var target *Fault
	assert.True(t, errors.As(err, &target))
}
