package notify

import (
	"sync"
	"testing"
)

func TestHub_PublishReachesAllTopicSubscribers(t *testing.T) {
	hub := NewHub(4, nil)

	first, cancelFirst := hub.Subscribe("groups")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("groups")
	defer cancelSecond()
	other, cancelOther := hub.Subscribe("bookings")
	defer cancelOther()

	hub.PublishSnapshot("groups", "g1", map[string]string{"title": "Readers"})

	for name, ch := range map[string]<-chan Snapshot{"first": first, "second": second} {
		select {
		case snapshot := <-ch:
			if snapshot.EntityID != "g1" || snapshot.Topic != "groups" {
				t.Fatalf("%s subscriber got wrong snapshot: %+v", name, snapshot)
			}
		default:
			t.Fatalf("%s subscriber received nothing", name)
		}
	}

	select {
	case snapshot := <-other:
		t.Fatalf("bookings subscriber received a groups snapshot: %+v", snapshot)
	default:
	}
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1, nil)

	ch, cancel := hub.Subscribe("bookings")
	defer cancel()

	hub.PublishSnapshot("bookings", "b1", nil)
	hub.PublishSnapshot("bookings", "b2", nil)

	snapshot := <-ch
	if snapshot.EntityID != "b1" {
		t.Fatalf("expected the first snapshot to survive, got %q", snapshot.EntityID)
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected the overflow snapshot to be dropped, got %q", extra.EntityID)
	default:
	}
}

func TestHub_CancelClosesChannelAndIsIdempotent(t *testing.T) {
	hub := NewHub(4, nil)

	ch, cancel := hub.Subscribe("groups")
	cancel()
	cancel()

	if _, open := <-ch; open {
		t.Fatalf("expected the channel to be closed after cancel")
	}
	if count := hub.SubscriberCount("groups"); count != 0 {
		t.Fatalf("expected no remaining subscribers, got %d", count)
	}

	// A publish after cancel must not panic on the closed channel.
	hub.PublishSnapshot("groups", "g1", nil)
}

func TestHub_ConcurrentPublishAndSubscribe(t *testing.T) {
	hub := NewHub(64, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, cancel := hub.Subscribe("activities")
			defer cancel()
			<-ch
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			hub.PublishSnapshot("activities", "a1", nil)
		}
	}()

	wg.Wait()
	<-done
}
