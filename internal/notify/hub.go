// Package notify distributes entity snapshots to subscribed clients. Whenever
// a mutating operation commits, the owning service publishes the fresh state
// of the entity and every subscriber of that topic receives it.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Snapshot is one published state of an entity.
type Snapshot struct {
	Topic       string    `json:"topic"`
	EntityID    string    `json:"entityId"`
	Data        any       `json:"data"`
	PublishedAt time.Time `json:"publishedAt"`
}

// subscriber holds a single client's delivery channel.
type subscriber struct {
	topic string
	ch    chan Snapshot
}

// Hub fans snapshots out to per-topic subscribers. Delivery is best effort:
// a subscriber whose buffer is full misses that snapshot and catches up on
// the next publish, since every message carries full entity state.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	buffer      int
	now         func() time.Time
	logger      *slog.Logger
}

// NewHub creates a hub whose subscriber channels buffer the given number of
// snapshots. A non-positive buffer falls back to 8.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]map[*subscriber]struct{}),
		buffer:      buffer,
		now:         time.Now,
		logger:      logger,
	}
}

// Subscribe registers interest in a topic and returns the delivery channel
// together with a cancel function. Cancel closes the channel and removes the
// subscription; it is safe to call more than once.
func (h *Hub) Subscribe(topic string) (<-chan Snapshot, func()) {
	sub := &subscriber{topic: topic, ch: make(chan Snapshot, h.buffer)}

	h.mu.Lock()
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[*subscriber]struct{})
	}
	h.subscribers[topic][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.subscribers[sub.topic]; ok {
				delete(subs, sub)
				if len(subs) == 0 {
					delete(h.subscribers, sub.topic)
				}
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// PublishSnapshot delivers the current state of an entity to every subscriber
// of the topic. Slow subscribers are skipped rather than blocked on.
func (h *Hub) PublishSnapshot(topic, entityID string, data any) {
	snapshot := Snapshot{
		Topic:       topic,
		EntityID:    entityID,
		Data:        data,
		PublishedAt: h.now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[topic] {
		select {
		case sub.ch <- snapshot:
		default:
			h.logger.Warn("subscriber buffer full, snapshot dropped",
				"topic", topic, "entity_id", entityID)
		}
	}
}

// SubscriberCount reports how many clients listen on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
