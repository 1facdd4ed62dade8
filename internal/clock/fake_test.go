package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSleepAdvances(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := NewFake(start)

	clk.Sleep(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clk.Now())

	clk.Sleep(0)
	clk.Sleep(-time.Second)
	assert.Equal(t, start.Add(90*time.Second), clk.Now(), "non-positive sleeps must not move time")
}

func TestFakeCallbacksFireInOrder(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := NewFake(start)

	var fired []time.Time
	clk.After(2*time.Second, func() { fired = append(fired, clk.Now()) })
	clk.After(time.Second, func() { fired = append(fired, clk.Now()) })
	clk.After(10*time.Second, func() { fired = append(fired, clk.Now()) })

	clk.Advance(5 * time.Second)

	require.Len(t, fired, 2, "only callbacks inside the crossed interval fire")
	assert.Equal(t, start.Add(time.Second), fired[0])
	assert.Equal(t, start.Add(2*time.Second), fired[1])
	assert.Equal(t, start.Add(5*time.Second), clk.Now())

	clk.Advance(10 * time.Second)
	require.Len(t, fired, 3)
	assert.Equal(t, start.Add(10*time.Second), fired[2])
}

func TestFakeCallbackSeesScheduledInstant(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clk := NewFake(start)

	var at time.Time
	clk.At(start.Add(3*time.Second), func() { at = clk.Now() })

	// Cross the schedule in small steps, as a polling loop would.
	for i := 0; i < 10; i++ {
		clk.Sleep(time.Second)
	}
	assert.Equal(t, start.Add(3*time.Second), at)
}

func TestScaledClampsFactor(t *testing.T) {
	clk := NewScaled(0.1)
	assert.Equal(t, 1.0, clk.factor)
}
