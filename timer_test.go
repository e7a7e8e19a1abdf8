package cooldown

import (
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/quiesce/cooldown/internal/testing/require"
)

func TestTimerFiresOnceAfterDuration(t *testing.T) {
	run(t, func(t *testing.T) {
		var (
			tm    quiesceTimer
			fired atomic.Int32
		)

		tm.Start(100*time.Millisecond, func() { fired.Add(1) })

		sleep(90)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(0))

		sleep(20)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(1))

		sleep(500)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(1))
	})
}

func TestTimerRestartSupersedesDeadline(t *testing.T) {
	run(t, func(t *testing.T) {
		var (
			tm    quiesceTimer
			fired atomic.Int32
		)

		tm.Start(100*time.Millisecond, func() { fired.Add(1) })

		sleep(50)
		tm.Start(100*time.Millisecond, func() { fired.Add(1) })

		// The original deadline would have elapsed by now.
		sleep(90)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(0))

		sleep(20)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(1))
	})
}

func TestTimerCancelPreventsFire(t *testing.T) {
	run(t, func(t *testing.T) {
		var (
			tm    quiesceTimer
			fired atomic.Int32
		)

		tm.Start(100*time.Millisecond, func() { fired.Add(1) })
		sleep(50)
		tm.Cancel()

		sleep(500)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(0))
	})
}

func TestTimerCancelWhileIdleIsNoOp(t *testing.T) {
	run(t, func(t *testing.T) {
		var (
			tm    quiesceTimer
			fired atomic.Int32
		)

		// Never armed.
		tm.Cancel()
		tm.Cancel()

		// Already fired.
		tm.Start(100*time.Millisecond, func() { fired.Add(1) })
		sleep(110)
		synctest.Wait()
		tm.Cancel()

		require.Equal(t, fired.Load(), int32(1))

		// The timer stays usable after redundant cancels.
		tm.Start(100*time.Millisecond, func() { fired.Add(1) })
		sleep(110)
		synctest.Wait()
		require.Equal(t, fired.Load(), int32(2))
	})
}
