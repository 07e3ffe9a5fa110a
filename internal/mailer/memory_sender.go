package mailer

import "sync"

// SentEmail is an email captured by MemorySender.
type SentEmail struct {
	To       []string
	Subject  string
	HTMLBody string
}

// MemorySender records emails instead of sending them. Useful in tests.
type MemorySender struct {
	mu     sync.Mutex
	emails []SentEmail
}

// NewMemorySender creates an empty MemorySender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

func (s *MemorySender) SendHTML(to []string, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emails = append(s.emails, SentEmail{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})

	return nil
}

// Emails returns a copy of all captured emails.
func (s *MemorySender) Emails() []SentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SentEmail, len(s.emails))
	copy(out, s.emails)
	return out
}
