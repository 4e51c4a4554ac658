// Command sendmail sends a single email through SparkPost from the
// command line. Connection settings come from the environment (or a
// .env file); message defaults such as the sender address can be kept
// in an optional YAML profile.
//
// Usage:
//
//	SPARKPOST_API_KEY=... sendmail -to user@example.com -subject "Hi" -text "Hello"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	netmail "net/mail"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/mailkit/pkg/config"
	"github.com/dmitrymomot/mailkit/pkg/mail"
	"github.com/dmitrymomot/mailkit/pkg/sparkpost"
)

// profile holds message defaults loaded from a YAML file.
type profile struct {
	From    string            `yaml:"from"`
	ReplyTo string            `yaml:"reply_to"`
	Headers map[string]string `yaml:"headers"`
	Tags    []string          `yaml:"tags"`
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		profilePath = flag.String("profile", "", "path to YAML profile with message defaults")
		from        = flag.String("from", "", "sender address, e.g. \"Acme <noreply@acme.test>\"")
		to          = flag.String("to", "", "comma-separated To recipients (required)")
		cc          = flag.String("cc", "", "comma-separated Cc recipients")
		bcc         = flag.String("bcc", "", "comma-separated Bcc recipients")
		replyTo     = flag.String("reply-to", "", "reply-to address")
		subject     = flag.String("subject", "", "message subject")
		text        = flag.String("text", "", "plain-text body")
		htmlPath    = flag.String("html", "", "path to a file with the HTML body")
		attach      = flag.String("attach", "", "comma-separated paths to attach")
		tags        = flag.String("tags", "", "comma-separated transmission tags")
		devDir      = flag.String("dev", "", "write the message to this directory instead of sending")
	)
	flag.Parse()

	if err := run(log, *profilePath, *from, *to, *cc, *bcc, *replyTo, *subject, *text, *htmlPath, *attach, *tags, *devDir); err != nil {
		log.Error("send failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, profilePath, from, to, cc, bcc, replyTo, subject, text, htmlPath, attach, tags, devDir string) error {
	var prof profile
	if profilePath != "" {
		data, err := os.ReadFile(profilePath)
		if err != nil {
			return fmt.Errorf("read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &prof); err != nil {
			return fmt.Errorf("parse profile: %w", err)
		}
	}

	if from == "" {
		from = prof.From
	}
	if replyTo == "" {
		replyTo = prof.ReplyTo
	}

	msg, err := buildMessage(from, to, cc, bcc, replyTo, subject, text, htmlPath, attach, tags, prof)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if devDir != "" {
		if err := mail.NewDevSender(devDir).Send(ctx, msg); err != nil {
			return err
		}
		log.Info("message written", "dir", devDir, "subject", msg.Subject)
		return nil
	}

	var cfg sparkpost.Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	client, err := sparkpost.New(cfg)
	if err != nil {
		return err
	}

	result, err := client.SendTransmission(ctx, msg)
	if err != nil {
		return err
	}
	log.Info("message sent",
		"id", result.ID,
		"accepted", result.TotalAcceptedRecipients,
		"rejected", result.TotalRejectedRecipients,
	)
	return nil
}

func buildMessage(from, to, cc, bcc, replyTo, subject, text, htmlPath, attach, tags string, prof profile) (*mail.Message, error) {
	msg := &mail.Message{
		Subject: subject,
		Text:    text,
		Tags:    prof.Tags,
	}

	var err error
	if msg.From, err = parseAddress(from); err != nil {
		return nil, fmt.Errorf("invalid -from: %w", err)
	}
	if msg.To, err = parseAddressList(to); err != nil {
		return nil, fmt.Errorf("invalid -to: %w", err)
	}
	if msg.Cc, err = parseAddressList(cc); err != nil {
		return nil, fmt.Errorf("invalid -cc: %w", err)
	}
	if msg.Bcc, err = parseAddressList(bcc); err != nil {
		return nil, fmt.Errorf("invalid -bcc: %w", err)
	}
	if replyTo != "" {
		if msg.ReplyTo, err = parseAddress(replyTo); err != nil {
			return nil, fmt.Errorf("invalid -reply-to: %w", err)
		}
	}

	if htmlPath != "" {
		html, err := os.ReadFile(htmlPath)
		if err != nil {
			return nil, fmt.Errorf("read html body: %w", err)
		}
		msg.HTML = string(html)
	}

	for _, path := range splitList(attach) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		msg.Attachments = append(msg.Attachments, mail.Attachment{
			Filename:    filepath.Base(path),
			ContentType: contentTypeFor(path),
			Content:     data,
		})
	}

	if tags != "" {
		msg.Tags = splitList(tags)
	}
	for k, v := range prof.Headers {
		msg.AddHeader(k, v)
	}

	return msg, nil
}

func parseAddress(s string) (mail.Address, error) {
	if strings.TrimSpace(s) == "" {
		return mail.Address{}, fmt.Errorf("address is empty")
	}
	addr, err := netmail.ParseAddress(s)
	if err != nil {
		return mail.Address{}, err
	}
	return mail.Address{Name: addr.Name, Email: addr.Address}, nil
}

func parseAddressList(s string) ([]mail.Address, error) {
	var out []mail.Address
	for _, part := range splitList(s) {
		addr, err := parseAddress(part)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// contentTypeFor guesses a MIME type from the file extension, falling
// back to a generic binary type.
func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
