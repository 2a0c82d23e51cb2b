// Package script replays a scripted agent run onto an event bus so the chat
// window can be driven without a live agent.
package script

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"agentwindow/internal/events"
	"agentwindow/internal/message"

	"github.com/pelletier/go-toml/v2"
)

//go:embed demo.toml
var demoScript []byte

var (
	ErrEmpty      = errors.New("script has no messages")
	ErrEmptyValue = errors.New("message value is empty")
)

// Entry 是脚本中的一条消息及其出现前的等待时间。
type Entry struct {
	Type    string `toml:"type"`
	Value   string `toml:"value"`
	Info    string `toml:"info"`
	DelayMS int    `toml:"delay_ms"`
}

// Script 是一次完整的 agent 运行。
type Script struct {
	Name    string  `toml:"name"`
	DelayMS int     `toml:"delay_ms"`
	Entries []Entry `toml:"message"`
}

// Parse 解码并校验脚本。
func Parse(data []byte) (Script, error) {
	var s Script
	if err := toml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Load 从文件读取脚本。
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Builtin returns the embedded demo run.
func Builtin() Script {
	s, err := Parse(demoScript)
	if err != nil {
		panic(fmt.Sprintf("embedded demo script: %v", err))
	}
	return s
}

// Validate 检查消息类型与内容。
func (s Script) Validate() error {
	if len(s.Entries) == 0 {
		return ErrEmpty
	}
	for i, e := range s.Entries {
		if _, err := message.ParseType(e.Type); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
		if strings.TrimSpace(e.Value) == "" {
			return fmt.Errorf("message %d: %w", i, ErrEmptyValue)
		}
	}
	return nil
}

// Messages 返回脚本中的全部消息（已校验的脚本不会出现未知类型）。
func (s Script) Messages() []message.Message {
	out := make([]message.Message, 0, len(s.Entries))
	for _, e := range s.Entries {
		t, _ := message.ParseType(e.Type)
		out = append(out, message.Message{Type: t, Value: e.Value, Info: e.Info})
	}
	return out
}

func (s Script) delay(e Entry) time.Duration {
	ms := e.DelayMS
	if ms == 0 {
		ms = s.DelayMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Replay 先发送 reset，再按延迟逐条发布消息，最后发送 done。
// ctx 取消时立即返回 ctx.Err()。
func Replay(ctx context.Context, s Script, bus *events.Bus, runID string) error {
	bus.Publish(events.Event{Kind: events.KindReset, RunID: runID, Timestamp: time.Now()})

	msgs := s.Messages()
	for i, msg := range msgs {
		if d := s.delay(s.Entries[i]); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		bus.Publish(events.MessageEvent(runID, msg))
	}
	bus.Publish(events.Event{Kind: events.KindDone, RunID: runID, Timestamp: time.Now()})
	return nil
}
