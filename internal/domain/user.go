package domain

// MailEndpoint is one half of a mail-service connection (incoming or
// outgoing).
type MailEndpoint struct {
	Host   string `json:"host,omitempty"`
	Port   int    `json:"port,omitempty"`
	Secure bool   `json:"secure,omitempty"`
}

// MailProfile holds the optional mail-service connection settings a
// user supplies at registration. It is carried on the User record but
// never dialed; real IMAP/SMTP integration is a future concern.
type MailProfile struct {
	Provider string       `json:"provider,omitempty"`
	Address  string       `json:"address,omitempty"`
	Password string       `json:"password,omitempty"`
	IMAP     MailEndpoint `json:"imap,omitzero"`
	SMTP     MailEndpoint `json:"smtp,omitzero"`
}

// User is a registered account holder. At most one user is current at
// a time.
type User struct {
	ID    string       `json:"id"`
	Email string       `json:"email"`
	Name  string       `json:"name"`
	Mail  *MailProfile `json:"mail,omitempty"`
}
