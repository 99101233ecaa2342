package notify

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"sync"

	"github.com/wolfman30/material-scheduler/pkg/logging"
)

const defaultFromName = "Agendamento de Materiais"

// EmailSender delivers one message. SendGrid, SES and the stub implement it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a transactional email. Tags are attached as provider
// metadata (SendGrid custom args, SES message tags) for later lookup.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
	Tags    map[string]string
}

// sender is the From identity shared by the real providers.
type sender struct {
	name    string
	address string
}

func newSender(name, address string) sender {
	if strings.TrimSpace(name) == "" {
		name = defaultFromName
	}
	return sender{name: name, address: strings.TrimSpace(address)}
}

// header renders the RFC 5322 From value, encoding non-ASCII names.
func (s sender) header() string {
	return (&mail.Address{Name: s.name, Address: s.address}).String()
}

func sortedTagKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StubEmailSender logs messages instead of sending them and keeps them for
// inspection.
type StubEmailSender struct {
	logger *logging.Logger

	mu   sync.Mutex
	sent []EmailMessage
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.logger.Info("stub email sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Sent returns the messages seen so far.
func (s *StubEmailSender) Sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}
