package events

import "sync"

// Bus 是简单的发布/订阅：每个订阅者一个带缓冲通道，满了就丢弃。
type Bus struct {
	mu     sync.Mutex
	subs   []chan Event
	buffer int
	closed bool
}

// NewBus creates a bus whose subscriber channels hold buffer events (default 32).
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 32
	}
	return &Bus{buffer: buffer}
}

// Subscribe 返回新的订阅通道；总线关闭后返回已关闭的通道。
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.buffer)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish 非阻塞投递；返回成功投递的订阅者数量。
func (b *Bus) Publish(evt Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- evt:
			delivered++
		default:
			log.WithField("kind", evt.Kind).Debug("subscriber full, event dropped")
		}
	}
	return delivered
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.closed = true
}
