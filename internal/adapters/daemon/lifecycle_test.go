package daemon_test

import (
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vgren/internal/adapters/daemon"
)

func TestLifecycle_AutoShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		select {
		case <-lc.ShutdownChan():
		case <-time.After(200 * time.Millisecond):
			t.Fatal("expected shutdown to be triggered")
		}
	})
}

func TestLifecycle_ResetPreventsShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		lc.ResetTimer()

		select {
		case <-lc.ShutdownChan():
			t.Fatal("shutdown should not have triggered yet")
		case <-time.After(60 * time.Millisecond):
		}
		lc.Shutdown()
	})
}

func TestLifecycle_IdleRemaining(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(100 * time.Millisecond)

		assert.Equal(t, 100*time.Millisecond, lc.IdleRemaining())

		time.Sleep(40 * time.Millisecond)
		assert.Equal(t, 60*time.Millisecond, lc.IdleRemaining())
		assert.Equal(t, 40*time.Millisecond, lc.Uptime())

		lc.Shutdown()
	})
}

func TestLifecycle_ZeroTimeoutNeverExpires(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		lc := daemon.NewLifecycle(0)

		select {
		case <-lc.ShutdownChan():
			t.Fatal("idle shutdown is disabled")
		case <-time.After(time.Hour):
		}
		assert.Zero(t, lc.IdleRemaining())

		lc.ResetTimer()
		lc.Shutdown()
		lc.Shutdown()

		select {
		case <-lc.ShutdownChan():
		default:
			t.Fatal("explicit shutdown must close the channel")
		}
	})
}
