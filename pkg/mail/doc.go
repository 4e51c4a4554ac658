// Package mail defines a provider-agnostic email message model and the
// Sender interface that delivery adapters implement.
//
// The package deliberately contains no transport logic. A Message is a
// plain value describing recipients, bodies, custom headers, attachments,
// and provider tags; adapters (e.g. the sparkpost package) translate it
// into their provider's wire format.
//
// # Usage
//
//	msg := &mail.Message{
//	    From:    mail.Address{Name: "Acme", Email: "noreply@acme.test"},
//	    To:      []mail.Address{{Email: "user@example.com"}},
//	    Subject: "Welcome!",
//	    HTML:    "<h1>Hello</h1>",
//	    Tags:    []string{"welcome"},
//	}
//
//	if err := sender.Send(ctx, msg); err != nil {
//	    // handle delivery failure
//	}
//
// # Development
//
// DevSender implements Sender for local development: instead of talking
// to a provider it writes each message to disk as an HTML file plus a
// JSON metadata file, so outgoing mail can be inspected in a browser.
//
// # Error Handling
//
// The package exposes sentinel errors for classification with errors.Is:
//
//   - ErrInvalidMessage: the message failed validation
//   - ErrSendFailed: delivery failed after validation passed
package mail
