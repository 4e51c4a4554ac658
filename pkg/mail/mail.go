package mail

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Sender represents an interface for sending email messages.
// Provider adapters implement it so application code stays
// independent of the delivery vendor.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Address holds a display name and an email address.
type Address struct {
	Name  string
	Email string
}

// String formats the address per RFC 5322: "Name <email>" when a
// display name is present, otherwise just the bare address.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Validate checks that the address carries a syntactically valid email.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("%w: email address is required", ErrInvalidMessage)
	}
	if !emailRegex.MatchString(a.Email) {
		return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidMessage, a.Email)
	}
	return nil
}

// Header is a single custom message header. Headers are kept as an
// ordered list so they reach the provider in the order they were set.
type Header struct {
	Key   string
	Value string
}

// Attachment represents a file attached to a message. Content holds the
// raw bytes; encoding is the responsibility of the provider adapter.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a fully-prepared email ready for sending through a Sender.
type Message struct {
	From          Address
	To            []Address
	Cc            []Address
	Bcc           []Address
	ReplyTo       Address
	Subject       string
	Text          string
	HTML          string
	Headers       []Header
	Attachments   []Attachment
	Tags          []string
	Transactional bool
	// Options carries provider-specific send options that adapters
	// merge into their request verbatim.
	Options map[string]any
}

// AddHeader appends a custom header, preserving insertion order.
func (m *Message) AddHeader(key, value string) *Message {
	m.Headers = append(m.Headers, Header{Key: key, Value: value})
	return m
}

// Validate ensures the message is deliverable: a valid sender, at least
// one primary recipient, valid addresses throughout, and a body.
func (m *Message) Validate() error {
	if err := m.From.Validate(); err != nil {
		return fmt.Errorf("%w: invalid From address", ErrInvalidMessage)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one To recipient is required", ErrInvalidMessage)
	}
	for _, a := range append(append(append([]Address{}, m.To...), m.Cc...), m.Bcc...) {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	if m.ReplyTo.Email != "" {
		if err := m.ReplyTo.Validate(); err != nil {
			return err
		}
	}
	if m.Text == "" && m.HTML == "" {
		return fmt.Errorf("%w: either Text or HTML body is required", ErrInvalidMessage)
	}
	return nil
}

// emailRegex is a pragmatic format check, not a full RFC 5321 validator.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
