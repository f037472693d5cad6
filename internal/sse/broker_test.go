package sse

import (
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishCaseEventDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishCaseEvent("case_created", "CS-123456", "Submitted")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: case.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"CS-123456"`) {
			t.Errorf("missing id in %q", s)
		}
		if !strings.Contains(s, `"status":"Submitted"`) {
			t.Errorf("missing status in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishAfterClose(t *testing.T) {
	b := NewBroker()
	b.Close()

	// Must not panic or block.
	b.Publish(Event{Type: "case.case_created", Data: map[string]string{}})
	b.PublishCaseEvent("case_created", "CS-000001", "Submitted")
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after close = %d", n)
	}
}
