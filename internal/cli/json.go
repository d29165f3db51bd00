package cli

import (
	"time"

	"github.com/quicksilvermail/quicksilver/internal/domain"
)

// ---------------------------------------------------------------------------
// User JSON type (login, register, whoami, profile)
// ---------------------------------------------------------------------------

type jsonUser struct {
	ID    string           `json:"id"`
	Email string           `json:"email"`
	Name  string           `json:"name"`
	Mail  *jsonMailProfile `json:"mail,omitempty"`
}

type jsonMailProfile struct {
	Provider string `json:"provider"`
	Address  string `json:"address"`
	IMAPHost string `json:"imap_host,omitempty"`
	IMAPPort int    `json:"imap_port,omitempty"`
	SMTPHost string `json:"smtp_host,omitempty"`
	SMTPPort int    `json:"smtp_port,omitempty"`
}

func toJSONUser(u *domain.User) jsonUser {
	out := jsonUser{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
	if u.Mail != nil {
		out.Mail = &jsonMailProfile{
			Provider: u.Mail.Provider,
			Address:  u.Mail.Address,
			IMAPHost: u.Mail.IMAP.Host,
			IMAPPort: u.Mail.IMAP.Port,
			SMTPHost: u.Mail.SMTP.Host,
			SMTPPort: u.Mail.SMTP.Port,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Thread JSON types (list)
// ---------------------------------------------------------------------------

type jsonThread struct {
	ID            string            `json:"id"`
	Subject       string            `json:"subject"`
	Participants  []jsonParticipant `json:"participants"`
	LastMessage   string            `json:"last_message,omitempty"`
	LastDate      string            `json:"last_date"`
	UnreadCount   int               `json:"unread_count"`
	HasAttachment bool              `json:"has_attachment"`
	Mailbox       string            `json:"mailbox"`
}

func toJSONThreads(threads []domain.Thread) []jsonThread {
	out := make([]jsonThread, 0, len(threads))
	for _, t := range threads {
		out = append(out, jsonThread{
			ID:            t.ID,
			Subject:       t.Subject,
			Participants:  toJSONParticipants(t.Participants),
			LastMessage:   t.LastMessage,
			LastDate:      t.LastMessageTime.Format(time.RFC3339),
			UnreadCount:   t.UnreadCount,
			HasAttachment: t.HasAttachment,
			Mailbox:       string(t.Mailbox),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Thread detail JSON type (read)
// ---------------------------------------------------------------------------

type jsonThreadDetail struct {
	ID           string            `json:"id"`
	Subject      string            `json:"subject"`
	Mailbox      string            `json:"mailbox"`
	Participants []jsonParticipant `json:"participants"`
	Messages     []jsonMessage     `json:"messages"`
}

type jsonMessage struct {
	ID     string          `json:"id"`
	Sender jsonParticipant `json:"sender"`
	Body   string          `json:"body"`
	Date   string          `json:"date"`
	IsRead bool            `json:"is_read"`
}

func toJSONThreadDetail(t *domain.Thread, messages []domain.Message) jsonThreadDetail {
	msgs := make([]jsonMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, toJSONMessage(&m))
	}
	return jsonThreadDetail{
		ID:           t.ID,
		Subject:      t.Subject,
		Mailbox:      string(t.Mailbox),
		Participants: toJSONParticipants(t.Participants),
		Messages:     msgs,
	}
}

func toJSONMessage(m *domain.Message) jsonMessage {
	return jsonMessage{
		ID:     m.ID,
		Sender: toJSONParticipant(m.Sender),
		Body:   m.Content,
		Date:   m.Timestamp.Format(time.RFC3339),
		IsRead: m.IsRead,
	}
}

// ---------------------------------------------------------------------------
// Participant JSON type (shared)
// ---------------------------------------------------------------------------

type jsonParticipant struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func toJSONParticipant(p domain.Participant) jsonParticipant {
	return jsonParticipant{ID: p.ID, Name: p.Name, Email: p.Email}
}

func toJSONParticipants(ps []domain.Participant) []jsonParticipant {
	if len(ps) == 0 {
		return nil
	}
	out := make([]jsonParticipant, len(ps))
	for i, p := range ps {
		out[i] = toJSONParticipant(p)
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (compose, draft, reply, trash, mark-read, logout, etc.)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	Message   string `json:"message,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}
