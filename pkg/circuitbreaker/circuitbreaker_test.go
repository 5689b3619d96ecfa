package circuitbreaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})
	boom := fmt.Errorf("boom")

	assert.Equal(t, boom, cb.Execute(func() error { return boom }))
	assert.Equal(t, boom, cb.Execute(func() error { return boom }))

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.Equal(t, ErrOpen, err)
	assert.False(t, called)
}

func TestRecoversAfterTimeout(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 1, Timeout: time.Nanosecond})

	_ = cb.Execute(func() error { return fmt.Errorf("boom") })
	time.Sleep(time.Millisecond)

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	_ = cb.Execute(func() error { return fmt.Errorf("boom") })
	assert.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return fmt.Errorf("boom") })

	// Still closed: the success in between reset the streak.
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
