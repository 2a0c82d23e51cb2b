package events

import (
	"time"

	"agentwindow/internal/message"
)

// Kind 描述事件流中的事件类型。
type Kind string

const (
	// KindMessage 追加一条消息到对话末尾。
	KindMessage Kind = "message"
	// KindReset 清空当前对话（新一轮 agent 部署）。
	KindReset Kind = "reset"
	// KindDone 表示本轮运行结束，不再有消息。
	KindDone Kind = "done"
)

// Event 是 agent 运行时推送给对话窗口的唯一消息格式。
type Event struct {
	Kind      Kind
	RunID     string
	Message   message.Message
	Timestamp time.Time
}

// MessageEvent wraps msg as an append event for run.
func MessageEvent(runID string, msg message.Message) Event {
	return Event{Kind: KindMessage, RunID: runID, Message: msg, Timestamp: time.Now()}
}
