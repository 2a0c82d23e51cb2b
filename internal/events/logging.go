package events

import (
	"agentwindow/internal/logger"
)

// log 复用全局 logger，标记事件组件。
var log = logger.Named("events")

// Record 订阅 bus，把每个事件写入 tl，直到 bus 关闭。
// 返回的通道在最后一个事件写完后关闭。
func Record(bus *Bus, tl logger.TranscriptLogger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil {
		close(done)
		return done
	}
	if tl == nil {
		tl = logger.NoopTranscriptLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		counts := map[string]int{}
		for evt := range sub {
			switch evt.Kind {
			case KindReset:
				counts[evt.RunID] = 0
				tl.Reset(evt.RunID)
			case KindMessage:
				tl.Appended(evt.RunID, counts[evt.RunID], evt.Message)
				counts[evt.RunID]++
			case KindDone:
				tl.Done(evt.RunID, counts[evt.RunID])
			default:
				log.WithField("kind", evt.Kind).Debug("ignoring unknown event")
			}
		}
	}()
	return done
}
