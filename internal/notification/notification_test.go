package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/membership-hub/membership-service/internal/config"
)

func TestLogDispatcherNeverLogsBody(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewLogDispatcher(zap.New(core))

	err := d.Send(context.Background(), OTPMessage("a@x.com", "042137", 15*time.Minute))
	require.NoError(t, err)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "a@x.com", entry.ContextMap()["to"])
	for _, v := range entry.ContextMap() {
		assert.NotContains(t, v, "042137")
	}
}

func TestLogDispatcherRequiresRecipients(t *testing.T) {
	d := NewLogDispatcher(zap.NewNop())
	assert.ErrorIs(t, d.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipients)
}

func TestNewSelectsDispatcher(t *testing.T) {
	d, err := New(config.NotificationConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogDispatcher{}, d)

	d, err = New(config.NotificationConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, EmailFrom: "noreply@example.com"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPDispatcher{}, d)
}

func TestCredentialsMessage(t *testing.T) {
	msg := CredentialsMessage("a@x.com", "A", "a@x.com", "0123456789abcdef", "Org")
	assert.Equal(t, []string{"a@x.com"}, msg.To)
	assert.Contains(t, msg.Body, "0123456789abcdef")
	assert.False(t, msg.HTML)
}

func TestBirthdayMessageEscapesAndLists(t *testing.T) {
	rows := []BirthdayRow{
		{Seq: 1, Name: "Ada", Phone: "555-0100"},
		{Seq: 2, Name: "<script>", Phone: "N/A"},
	}
	msg, err := BirthdayMessage([]string{"admin1@x.com", "admin2@x.com"}, rows, "Org")
	require.NoError(t, err)

	assert.True(t, msg.HTML)
	assert.Len(t, msg.To, 2)
	assert.Contains(t, msg.Body, "Ada")
	assert.Contains(t, msg.Body, "555-0100")
	assert.Contains(t, msg.Body, "N/A")
	assert.Contains(t, msg.Body, "&lt;script&gt;")
	assert.Equal(t, 2, strings.Count(msg.Body, "<tr>"))
}
