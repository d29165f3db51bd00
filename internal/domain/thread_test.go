package domain

import "testing"

func TestParticipant_String(t *testing.T) {
	tests := []struct {
		name string
		p    Participant
		want string
	}{
		{"with name", Participant{Name: "Alice Johnson", Email: "alice@example.com"}, "Alice Johnson <alice@example.com>"},
		{"email only", Participant{Email: "alice@example.com"}, "alice@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.String(); got != tt.want {
				t.Errorf("Participant.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMailbox(t *testing.T) {
	for _, name := range []string{"inbox", "sent", "drafts", "trash"} {
		box, err := ParseMailbox(name)
		if err != nil {
			t.Errorf("ParseMailbox(%q) error: %v", name, err)
		}
		if string(box) != name {
			t.Errorf("ParseMailbox(%q) = %q", name, box)
		}
	}
	if _, err := ParseMailbox("spam"); err == nil {
		t.Error("ParseMailbox(spam) should return error")
	}
}

func TestThread_IsUnread(t *testing.T) {
	unread := &Thread{UnreadCount: 3}
	if !unread.IsUnread() {
		t.Error("expected IsUnread() = true when UnreadCount > 0")
	}
	read := &Thread{UnreadCount: 0}
	if read.IsUnread() {
		t.Error("expected IsUnread() = false when UnreadCount = 0")
	}
}

func TestThread_From(t *testing.T) {
	tests := []struct {
		name   string
		thread Thread
		want   string
	}{
		{"named participant", Thread{Participants: []Participant{{Name: "Bob Smith", Email: "bob@example.com"}}}, "Bob Smith"},
		{"email fallback", Thread{Participants: []Participant{{Email: "bob@example.com"}}}, "bob@example.com"},
		{"no participants", Thread{}, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.thread.From(); got != tt.want {
				t.Errorf("Thread.From() = %q, want %q", got, tt.want)
			}
		})
	}
}
