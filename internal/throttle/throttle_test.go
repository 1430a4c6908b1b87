package throttle

import (
	"sync"
	"testing"
	"time"
)

type counter struct {
	mu     sync.Mutex
	values []int
}

func (c *counter) record(v int) func() {
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.values = append(c.values, v)
	}
}

func (c *counter) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.values...)
}

func TestFirstCallRunsImmediately(t *testing.T) {
	th := New(time.Hour)
	c := &counter{}

	th.Do(c.record(1))
	if got := c.snapshot(); len(got) != 1 || got[0] != 1 {
		t.Errorf("values = %v, want [1]", got)
	}
}

func TestContinuousBurstRunsEveryInterval(t *testing.T) {
	const interval = 50 * time.Millisecond
	th := New(interval)
	c := &counter{}

	deadline := time.Now().Add(6 * interval)
	i := 0
	for time.Now().Before(deadline) {
		i++
		th.Do(c.record(i))
		time.Sleep(interval / 10)
	}
	during := c.snapshot()

	// leading call plus one per elapsed interval, allow for scheduler slack
	if len(during) < 3 {
		t.Errorf("only %d runs during a burst of %d calls: %v", len(during), i, during)
	}

	time.Sleep(3 * interval)
	after := c.snapshot()
	if last := after[len(after)-1]; last != i {
		t.Errorf("last run value = %d, want final call %d", last, i)
	}
}

func TestTrailingCallRunsOnce(t *testing.T) {
	const interval = 30 * time.Millisecond
	th := New(interval)
	c := &counter{}

	th.Do(c.record(1))
	th.Do(c.record(2))
	th.Do(c.record(3))
	time.Sleep(4 * interval)

	got := c.snapshot()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("values = %v, want [1 3]", got)
	}
}

func TestZeroIntervalRunsEveryCall(t *testing.T) {
	th := New(0)
	c := &counter{}
	for i := 1; i <= 5; i++ {
		th.Do(c.record(i))
	}
	if got := c.snapshot(); len(got) != 5 {
		t.Errorf("values = %v, want 5 runs", got)
	}
}
