package migrate

import (
	"fmt"
	"io"
	"sync"
	"time"
)

const (
	heartbeatMessageTemplateConstant = "%s... still running (%s elapsed)\n"
)

// HeartbeatMonitor emits periodic still-in-progress lines while a child process runs.
//
// The monitor shares nothing with the streamed output path: it writes only to
// its own console sink, and its goroutine is always joined before the caller
// records the item's outcome.
type HeartbeatMonitor struct {
	consoleWriter io.Writer
	interval      time.Duration
}

// NewHeartbeatMonitor constructs a monitor writing to the provided console sink at the given interval.
//
// A nil writer or a non-positive interval disables the heartbeat entirely.
func NewHeartbeatMonitor(consoleWriter io.Writer, interval time.Duration) *HeartbeatMonitor {
	return &HeartbeatMonitor{consoleWriter: consoleWriter, interval: interval}
}

// Start launches the heartbeat goroutine and returns a stop function.
//
// The stop function signals the goroutine and blocks until it has exited.
func (monitor *HeartbeatMonitor) Start(itemPrefix string) func() {
	if monitor == nil || monitor.consoleWriter == nil || monitor.interval <= 0 {
		return func() {}
	}

	stopSignal := make(chan struct{})
	var monitorWaitGroup sync.WaitGroup
	monitorWaitGroup.Add(1)

	startedAt := time.Now()

	go func() {
		defer monitorWaitGroup.Done()

		heartbeatTicker := time.NewTicker(monitor.interval)
		defer heartbeatTicker.Stop()

		for {
			select {
			case <-stopSignal:
				return
			case tickTime := <-heartbeatTicker.C:
				elapsedDuration := tickTime.Sub(startedAt).Round(time.Second)
				fmt.Fprintf(monitor.consoleWriter, heartbeatMessageTemplateConstant, itemPrefix, elapsedDuration)
			}
		}
	}()

	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			close(stopSignal)
			monitorWaitGroup.Wait()
		})
	}
}
