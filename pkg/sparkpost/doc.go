// Package sparkpost implements mail.Sender on top of the SparkPost
// transmissions API.
//
// The adapter is a stateless, single-shot translator: each send maps the
// generic mail.Message onto a transmission payload, POSTs it, and checks
// the response code. There are no retries, batching, or delivery-guarantee
// semantics; callers own reliability.
//
// # Usage
//
//	client, err := sparkpost.New(sparkpost.Config{
//	    APIKey: os.Getenv("SPARKPOST_API_KEY"),
//	})
//	if err != nil {
//	    // Handle configuration error
//	}
//
//	err = client.Send(ctx, &mail.Message{
//	    From:    mail.Address{Name: "Acme", Email: "noreply@acme.test"},
//	    To:      []mail.Address{{Email: "user@example.com"}},
//	    Subject: "Welcome!",
//	    HTML:    htmlContent,
//	    Tags:    []string{"welcome"},
//	})
//
// SendTransmission returns the provider's per-transmission summary
// (transmission id, accepted/rejected recipient counts) for callers that
// need it.
//
// # Payload Mapping
//
// Every cc/bcc recipient entry carries header_to pointing at the primary
// To address, cc addresses additionally surface in a CC content header,
// and tags propagate to every recipient entry. Attachments are base64
// encoded with filename and content type passed through unchanged.
//
// # Error Handling
//
// Sentinel errors support classification with errors.Is:
//
//   - ErrInvalidConfig: missing API key or malformed base URL, raised by
//     New before any network call
//   - ErrSendFailed: transport failure or non-2xx response
//
// Error messages that embed a response body have the API key value
// replaced with "[FILTERED]" so credentials cannot leak through logs.
//
// # Testing
//
// The sparkposttest subpackage provides an in-process fake SparkPost
// server that records transmissions and answers with provider-shaped
// results.
package sparkpost
