package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevSender implements Sender for local development. It saves messages
// as HTML and JSON files to a directory instead of delivering them.
type DevSender struct {
	dir string
}

var _ Sender = (*DevSender)(nil)

// NewDevSender creates a development sender that writes messages to dir.
// The directory is created on first send if it doesn't exist.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

// messageMetadata is the JSON sidecar written next to each message body.
type messageMetadata struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	From      string   `json:"from"`
	To        []string `json:"to"`
	Cc        []string `json:"cc,omitempty"`
	Bcc       []string `json:"bcc,omitempty"`
	Subject   string   `json:"subject"`
	Tags      []string `json:"tags,omitempty"`
}

// Send validates the message and writes its body and metadata to disk.
// The HTML body is preferred; messages with only a text body get a .txt
// file instead.
func (d *DevSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrSendFailed, err)
	}

	now := time.Now()
	id := uuid.NewString()

	identifier := msg.Subject
	if len(msg.Tags) > 0 {
		identifier = msg.Tags[0]
	}
	base := fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), sanitizeFilename(identifier))

	body, ext := msg.HTML, ".html"
	if body == "" {
		body, ext = msg.Text, ".txt"
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+ext), []byte(body), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write body file: %v", ErrSendFailed, err)
	}

	meta := messageMetadata{
		ID:        id,
		Timestamp: now.Format(time.RFC3339),
		From:      msg.From.String(),
		To:        addressStrings(msg.To),
		Cc:        addressStrings(msg.Cc),
		Bcc:       addressStrings(msg.Bcc),
		Subject:   msg.Subject,
		Tags:      msg.Tags,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrSendFailed, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write metadata file: %v", ErrSendFailed, err)
	}

	return nil
}

func addressStrings(addrs []Address) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

// sanitizeRegex matches characters that are not alphanumeric, dash, underscore, or dot
var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename converts a string into a safe lowercase filename,
// truncated to a length filesystems are comfortable with.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")

	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "message"
	}
	return strings.ToLower(s)
}
