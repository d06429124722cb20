package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestXPThrottle_Allow(t *testing.T) {
	throttle := newXPThrottle(time.Minute)

	assert.True(t, throttle.Allow(1), "first message passes")
	assert.False(t, throttle.Allow(1), "second message inside the window is shed")

	// Other users have independent windows
	assert.True(t, throttle.Allow(2))
}

func TestXPThrottle_WindowRefills(t *testing.T) {
	throttle := newXPThrottle(20 * time.Millisecond)

	assert.True(t, throttle.Allow(1))
	assert.False(t, throttle.Allow(1))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, throttle.Allow(1), "window elapsed, message passes again")
}

func TestXPThrottle_Prune(t *testing.T) {
	throttle := newXPThrottle(10 * time.Millisecond)

	throttle.Allow(1)
	throttle.Allow(2)

	time.Sleep(20 * time.Millisecond)
	throttle.Prune()

	throttle.mu.Lock()
	remaining := len(throttle.limiters)
	throttle.mu.Unlock()
	assert.Zero(t, remaining)
}
