package collab

import "testing"

func TestSendAfterCloseIsDropped(t *testing.T) {
	c := NewClient(nil, nil, "client_test", "tester", "board_test")

	c.Send(&Message{Type: TypeWelcome})
	if len(c.send) != 1 {
		t.Fatalf("queued %d messages, want 1", len(c.send))
	}

	c.closeSend()
	c.closeSend() // idempotent

	// A broadcast racing the disconnect must not panic on the closed queue.
	c.Send(&Message{Type: TypePresenceUpdate})

	if _, ok := <-c.send; !ok {
		t.Fatal("first queued message lost")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("message queued after close")
	}
}
