package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPLimiter_EvictsIdleBuckets(t *testing.T) {
	clock := time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC)
	l := newIPLimiter(rate.Every(time.Minute), 1, 10*time.Minute)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		l.get(ip)
	}
	assert.Equal(t, 3, l.size())

	clock = clock.Add(5 * time.Minute)
	l.get("10.0.0.1")
	assert.Equal(t, 3, l.size())

	// .2 and .3 have been idle past the TTL, .1 for only 7 minutes
	clock = clock.Add(7 * time.Minute)
	l.get("10.0.0.4")
	assert.Equal(t, 2, l.size())

	clock = clock.Add(10 * time.Minute)
	l.get("10.0.0.4")
	assert.Equal(t, 1, l.size())
}
