package mail

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

	"github.com/pkg/errors"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStubSender(status int, body string, err error, captured **sgmail.SGMailV3) *sendGridSender {
	return &sendGridSender{
		from: sgmail.NewEmail("Storefront", "no-reply@example.com"),
		send: func(_ context.Context, msg *sgmail.SGMailV3) (int, string, error) {
			if captured != nil {
				*captured = msg
			}

			return status, body, err
		},
		logger: newDiscardLogger(),
	}
}

func TestSendGridSender_OnePersonalizationPerRecipient(t *testing.T) {
	var msg *sgmail.SGMailV3
	sender := newStubSender(http.StatusAccepted, "", nil, &msg)

	err := sender.Send(context.Background(), []string{"a@example.com", "b@example.com"}, "Your code", "123456")
	require.NoError(t, err)

	require.NotNil(t, msg)
	assert.Equal(t, "Your code", msg.Subject)
	assert.Equal(t, "no-reply@example.com", msg.From.Address)
	require.Len(t, msg.Personalizations, 2)
	assert.Equal(t, "a@example.com", msg.Personalizations[0].To[0].Address)
	assert.Equal(t, "b@example.com", msg.Personalizations[1].To[0].Address)
	require.Len(t, msg.Content, 1)
	assert.Equal(t, "123456", msg.Content[0].Value)
}

func TestSendGridSender_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		err      error
		wantKind domainerrors.Kind
	}{
		{"transport error is transient", 0, errors.New("dial tcp: timeout"), domainerrors.KindExternal},
		{"throttled is transient", http.StatusTooManyRequests, nil, domainerrors.KindExternal},
		{"server error is transient", http.StatusBadGateway, nil, domainerrors.KindExternal},
		{"bad request is permanent", http.StatusBadRequest, nil, domainerrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := newStubSender(tt.status, `{"errors":[]}`, tt.err, nil)

			err := sender.Send(context.Background(), []string{"a@example.com"}, "s", "b")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, domainerrors.KindOf(err))
		})
	}
}

func TestSendGridSender_NoRecipients(t *testing.T) {
	sender := newStubSender(http.StatusAccepted, "", nil, nil)

	err := sender.Send(context.Background(), nil, "s", "b")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestNewSendGridSender_RequiresKey(t *testing.T) {
	_, err := NewSendGridSender("", "no-reply@example.com", "Storefront", newDiscardLogger())
	assert.Error(t, err)
}

func TestNewMailSender_Providers(t *testing.T) {
	fallback, err := NewMailSender(SenderParams{Config: &config.Config{}, Logger: newDiscardLogger()})
	require.NoError(t, err)
	assert.IsType(t, &logSender{}, fallback)

	_, err = NewMailSender(SenderParams{
		Config: &config.Config{Mail: &config.MailConfig{Provider: "pigeon"}},
		Logger: newDiscardLogger(),
	})
	assert.Error(t, err)

	sg, err := NewMailSender(SenderParams{
		Config: &config.Config{Mail: &config.MailConfig{Provider: "sendgrid", SendGridAPIKey: "SG.key", FromAddress: "no-reply@example.com"}},
		Logger: newDiscardLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &sendGridSender{}, sg)
}
