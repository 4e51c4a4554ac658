package sparkpost_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/pkg/mail"
	"github.com/dmitrymomot/mailkit/pkg/sparkpost"
	"github.com/dmitrymomot/mailkit/pkg/sparkpost/sparkposttest"
)

const testAPIKey = "test-api-key-1234567890"

func testMessage() *mail.Message {
	return &mail.Message{
		From:    mail.Address{Name: "Acme", Email: "noreply@acme.test"},
		To:      []mail.Address{{Name: "Jane", Email: "jane@example.com"}},
		Subject: "Hello",
		Text:    "Hello there",
		HTML:    "<p>Hello there</p>",
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()

		client, err := sparkpost.New(sparkpost.Config{})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, sparkpost.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "APIKey is required")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()

		client, err := sparkpost.New(sparkpost.Config{
			APIKey:  testAPIKey,
			BaseURL: "ftp://api.sparkpost.com/api/v1",
		})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, sparkpost.ErrInvalidConfig)
	})

	t.Run("missing host", func(t *testing.T) {
		t.Parallel()

		client, err := sparkpost.New(sparkpost.Config{
			APIKey:  testAPIKey,
			BaseURL: "https://",
		})
		assert.Nil(t, client)
		assert.ErrorIs(t, err, sparkpost.ErrInvalidConfig)
	})
}

func TestNew_ValidConfig(t *testing.T) {
	t.Parallel()

	client, err := sparkpost.New(sparkpost.Config{APIKey: testAPIKey})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		sparkpost.MustNew(sparkpost.Config{})
	})
}

func TestClient_SendTransmission(t *testing.T) {
	t.Parallel()

	t.Run("posts one transmission with mapped payload", func(t *testing.T) {
		t.Parallel()

		srv := sparkposttest.NewServer()
		defer srv.Close()

		client, err := sparkpost.New(sparkpost.Config{
			APIKey:  testAPIKey,
			BaseURL: srv.URL(),
			Headers: map[string]string{"X-Proxy-Token": "proxy-123"},
		})
		require.NoError(t, err)

		msg := testMessage()
		msg.Cc = []mail.Address{{Name: "CC One", Email: "cc1@example.com"}, {Email: "cc2@example.com"}}
		msg.Bcc = []mail.Address{{Email: "bcc@example.com"}}
		msg.ReplyTo = mail.Address{Name: "Support", Email: "support@acme.test"}
		msg.Tags = []string{"onboarding", "welcome"}
		msg.Transactional = true
		msg.AddHeader("X-Campaign", "spring")
		msg.Attachments = []mail.Attachment{{
			Filename:    "invoice.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4 fake"),
		}}

		result, err := client.SendTransmission(context.Background(), msg)
		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.Equal(t, 4, result.TotalAcceptedRecipients)
		assert.Equal(t, 0, result.TotalRejectedRecipients)

		received := srv.Transmissions()
		require.Len(t, received, 1)
		tr := received[0]

		// Request headers: auth, content type, extras verbatim.
		assert.Equal(t, testAPIKey, tr.Header.Get("Authorization"))
		assert.Equal(t, "application/json", tr.Header.Get("Content-Type"))
		assert.Equal(t, "proxy-123", tr.Header.Get("x-proxy-token"))

		content, ok := tr.Body["content"].(map[string]any)
		require.True(t, ok, "content object missing")

		from, ok := content["from"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "noreply@acme.test", from["email"])
		assert.Equal(t, "Acme", from["name"])

		assert.Equal(t, "Hello", content["subject"])
		assert.Equal(t, "Hello there", content["text"])
		assert.Equal(t, "<p>Hello there</p>", content["html"])
		assert.Equal(t, "Support <support@acme.test>", content["reply_to"])

		headers, ok := content["headers"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "spring", headers["X-Campaign"])
		assert.Equal(t, "CC One <cc1@example.com>, cc2@example.com", headers["CC"])

		attachments, ok := content["attachments"].([]any)
		require.True(t, ok)
		require.Len(t, attachments, 1)
		att := attachments[0].(map[string]any)
		assert.Equal(t, "invoice.pdf", att["name"])
		assert.Equal(t, "application/pdf", att["type"])
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")), att["data"])

		recipients, ok := tr.Body["recipients"].([]any)
		require.True(t, ok)
		require.Len(t, recipients, 4)

		// Every recipient entry carries the message tags.
		for _, r := range recipients {
			entry := r.(map[string]any)
			assert.Equal(t, []any{"onboarding", "welcome"}, entry["tags"])
		}

		primary := recipients[0].(map[string]any)["address"].(map[string]any)
		assert.Equal(t, "jane@example.com", primary["email"])
		assert.Equal(t, "Jane", primary["name"])
		assert.NotContains(t, primary, "header_to")

		// cc/bcc entries point their rendered To: header at the primary recipient.
		for _, r := range recipients[1:] {
			addr := r.(map[string]any)["address"].(map[string]any)
			assert.Equal(t, "jane@example.com", addr["header_to"])
		}

		options, ok := tr.Body["options"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, options["transactional"])
	})

	t.Run("minimal message omits optional fields", func(t *testing.T) {
		t.Parallel()

		srv := sparkposttest.NewServer()
		defer srv.Close()

		client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()})

		msg := &mail.Message{
			From:    mail.Address{Email: "noreply@acme.test"},
			To:      []mail.Address{{Email: "jane@example.com"}},
			Subject: "Hi",
			Text:    "hi",
		}
		_, err := client.SendTransmission(context.Background(), msg)
		require.NoError(t, err)

		received := srv.Transmissions()
		require.Len(t, received, 1)

		content := received[0].Body["content"].(map[string]any)
		assert.NotContains(t, content, "html")
		assert.NotContains(t, content, "headers")
		assert.NotContains(t, content, "attachments")
		assert.NotContains(t, content, "reply_to")
		assert.NotContains(t, received[0].Body, "options")

		recipients := received[0].Body["recipients"].([]any)
		require.Len(t, recipients, 1)
		assert.NotContains(t, recipients[0].(map[string]any), "tags")
	})

	t.Run("invalid message never reaches the network", func(t *testing.T) {
		t.Parallel()

		srv := sparkposttest.NewServer()
		defer srv.Close()

		client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()})

		_, err := client.SendTransmission(context.Background(), &mail.Message{Subject: "broken"})
		assert.ErrorIs(t, err, mail.ErrInvalidMessage)
		assert.Empty(t, srv.Transmissions())
	})
}

func TestClient_SendTransmission_APIError(t *testing.T) {
	t.Parallel()

	t.Run("redacts api key in error body", func(t *testing.T) {
		t.Parallel()

		srv := sparkposttest.NewServer()
		defer srv.Close()
		srv.RespondWith(420, `{"errors":[{"message":"Exceed Sending Limit","key":"`+testAPIKey+`"}]}`)

		client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()})

		_, err := client.SendTransmission(context.Background(), testMessage())
		require.Error(t, err)
		assert.ErrorIs(t, err, sparkpost.ErrSendFailed)
		assert.Contains(t, err.Error(), "status 420")
		assert.Contains(t, err.Error(), "Exceed Sending Limit")
		assert.Contains(t, err.Error(), "[FILTERED]")
		assert.NotContains(t, err.Error(), testAPIKey)
	})

	t.Run("server error without key is passed through", func(t *testing.T) {
		t.Parallel()

		srv := sparkposttest.NewServer()
		defer srv.Close()
		srv.RespondWith(500, `{"errors":[{"message":"internal error"}]}`)

		client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()})

		err := client.Send(context.Background(), testMessage())
		assert.ErrorIs(t, err, sparkpost.ErrSendFailed)
		assert.Contains(t, err.Error(), "internal error")
	})
}

func TestClient_SendTransmission_TransportError(t *testing.T) {
	t.Parallel()

	srv := sparkposttest.NewServer()
	url := srv.URL()
	srv.Close() // connection refused from here on

	client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: url})

	_, err := client.SendTransmission(context.Background(), testMessage())
	assert.ErrorIs(t, err, sparkpost.ErrSendFailed)
}

func TestClient_SendTransmission_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := sparkposttest.NewServer()
	defer srv.Close()

	client := sparkpost.MustNew(sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendTransmission(ctx, testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, sparkpost.ErrSendFailed)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestClient_Options(t *testing.T) {
	t.Parallel()

	srv := sparkposttest.NewServer()
	defer srv.Close()

	client := sparkpost.MustNew(
		sparkpost.Config{APIKey: testAPIKey, BaseURL: srv.URL()},
		sparkpost.WithHeader("X-Tenant", "tenant-42"),
		sparkpost.WithHeaders(map[string]string{"X-Region": "eu-west"}),
	)

	require.NoError(t, client.Send(context.Background(), testMessage()))

	received := srv.Transmissions()
	require.Len(t, received, 1)
	assert.Equal(t, "tenant-42", received[0].Header.Get("X-Tenant"))
	assert.Equal(t, "eu-west", received[0].Header.Get("X-Region"))
}
