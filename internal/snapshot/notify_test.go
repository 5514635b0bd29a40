package snapshot

import (
	"sync"
	"testing"
	"time"
)

func TestUnsubscribeClosesChannel(t *testing.T) {
	updates, unsub := Subscribe()
	unsub()

	select {
	case _, ok := <-updates:
		if ok {
			t.Error("Expected channel to be closed after unsubscribe")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for channel close")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	before := Subscribers()
	_, unsub := Subscribe()
	if Subscribers() != before+1 {
		t.Fatalf("Expected %d subscribers, got %d", before+1, Subscribers())
	}

	unsub()
	unsub()

	if Subscribers() != before {
		t.Errorf("Expected %d subscribers after unsubscribe, got %d", before, Subscribers())
	}
}

func TestPublishUpdateNonBlocking(t *testing.T) {
	updates, unsub := Subscribe()
	defer unsub()

	publishUpdate("etag1")

	done := make(chan struct{})
	go func() {
		publishUpdate("etag2")
		publishUpdate("etag3")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("publishUpdate blocked on slow subscriber")
	}

	// the buffered slot keeps the first ETag
	if got := <-updates; got != "etag1" {
		t.Errorf("Expected etag1, got %s", got)
	}
}

func TestMultipleSubscribersReceiveUpdates(t *testing.T) {
	const n = 5
	channels := make([]Updates, 0, n)
	for i := 0; i < n; i++ {
		ch, unsub := Subscribe()
		defer unsub()
		channels = append(channels, ch)
	}

	publishUpdate(`W/"0123456789abcdef"`)

	timeout := time.After(time.Second)
	for i, ch := range channels {
		select {
		case etag := <-ch:
			if etag != `W/"0123456789abcdef"` {
				t.Errorf("subscriber %d got %s", i, etag)
			}
		case <-timeout:
			t.Fatalf("Timeout: subscriber %d received nothing", i)
		}
	}
}

func TestSubscriberReceivesOnlyAfterSubscription(t *testing.T) {
	publishUpdate("before-sub")

	updates, unsub := Subscribe()
	defer unsub()
	publishUpdate("after-sub")

	select {
	case etag := <-updates:
		if etag != "after-sub" {
			t.Errorf("Expected after-sub, got %s", etag)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for update")
	}

	select {
	case etag := <-updates:
		t.Errorf("Unexpected update received: %s", etag)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			updates, unsub := Subscribe()
			time.Sleep(time.Millisecond)
			unsub()
			for range updates {
			}
		}()
		go func() {
			defer wg.Done()
			publishUpdate("concurrent-etag")
		}()
	}
	wg.Wait()
}
