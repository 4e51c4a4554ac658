package sparkpost

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/dmitrymomot/mailkit/pkg/mail"
)

// transmission is the request body for POST /transmissions.
// https://developers.sparkpost.com/api/transmissions/
type transmission struct {
	Options    map[string]any `json:"options,omitempty"`
	Content    content        `json:"content"`
	Recipients []recipient    `json:"recipients"`
}

type content struct {
	From        address      `json:"from"`
	Subject     string       `json:"subject"`
	Text        string       `json:"text,omitempty"`
	HTML        string       `json:"html,omitempty"`
	Headers     headerObject `json:"headers,omitempty"`
	Attachments []attachment `json:"attachments,omitempty"`
	ReplyTo     string       `json:"reply_to,omitempty"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	// HeaderTo points cc/bcc entries at the primary recipient so the
	// rendered To: header shows the right address.
	HeaderTo string `json:"header_to,omitempty"`
}

type attachment struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type recipient struct {
	Address address  `json:"address"`
	Tags    []string `json:"tags,omitempty"`
}

// headerObject marshals custom headers as a JSON object in insertion
// order rather than the alphabetical order encoding/json gives maps.
type headerObject []mail.Header

func (h headerObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// buildTransmission maps a generic message onto the SparkPost
// transmission shape. The message must already be validated.
func buildTransmission(msg *mail.Message) transmission {
	primaryTo := msg.To[0].Email

	recipients := make([]recipient, 0, len(msg.To)+len(msg.Cc)+len(msg.Bcc))
	for _, a := range msg.To {
		recipients = append(recipients, recipient{
			Address: address{Email: a.Email, Name: a.Name},
			Tags:    msg.Tags,
		})
	}
	// cc/bcc recipients receive their own copy but the rendered To:
	// header must show the primary recipient, hence header_to.
	for _, a := range append(append([]mail.Address{}, msg.Cc...), msg.Bcc...) {
		recipients = append(recipients, recipient{
			Address: address{Email: a.Email, Name: a.Name, HeaderTo: primaryTo},
			Tags:    msg.Tags,
		})
	}

	headers := make(headerObject, 0, len(msg.Headers)+1)
	headers = append(headers, msg.Headers...)
	// Only cc addresses surface in a header; bcc stays invisible.
	if len(msg.Cc) > 0 {
		ccList := make([]string, len(msg.Cc))
		for i, a := range msg.Cc {
			ccList[i] = a.String()
		}
		headers = append(headers, mail.Header{Key: "CC", Value: strings.Join(ccList, ", ")})
	}

	attachments := make([]attachment, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, attachment{
			Name: a.Filename,
			Type: a.ContentType,
			Data: base64.StdEncoding.EncodeToString(a.Content),
		})
	}

	var options map[string]any
	if len(msg.Options) > 0 || msg.Transactional {
		options = make(map[string]any, len(msg.Options)+1)
		for k, v := range msg.Options {
			options[k] = v
		}
		if msg.Transactional {
			options["transactional"] = true
		}
	}

	var replyTo string
	if msg.ReplyTo.Email != "" {
		replyTo = msg.ReplyTo.String()
	}

	return transmission{
		Options: options,
		Content: content{
			From:        address{Email: msg.From.Email, Name: msg.From.Name},
			Subject:     msg.Subject,
			Text:        msg.Text,
			HTML:        msg.HTML,
			Headers:     headers,
			Attachments: attachments,
			ReplyTo:     replyTo,
		},
		Recipients: recipients,
	}
}
