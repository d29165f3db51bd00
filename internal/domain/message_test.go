package domain

import "testing"

func TestMessage_FromCurrentUser(t *testing.T) {
	own := &Message{Sender: CurrentSender()}
	if !own.FromCurrentUser() {
		t.Error("expected FromCurrentUser() = true for sentinel sender")
	}
	other := &Message{Sender: Participant{ID: "1", Name: "Alice Johnson", Email: "alice@example.com"}}
	if other.FromCurrentUser() {
		t.Error("expected FromCurrentUser() = false for a regular participant")
	}
}

func TestCurrentSender(t *testing.T) {
	s := CurrentSender()
	if s.ID != CurrentSenderID {
		t.Errorf("CurrentSender().ID = %q, want %q", s.ID, CurrentSenderID)
	}
	if s.Name == "" || s.Email == "" {
		t.Errorf("CurrentSender() should have a display name and email, got %+v", s)
	}
}
