package mail

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
		errIs   error
	}{
		{
			name: "html_message",
			msg: Message{
				Subject: "Order",
				From:    "bot@example.com",
				To:      []string{"pizzeria@example.com"},
				Body:    "<p>2 pizzas</p>",
				HTML:    true,
			},
		},
		{
			name:    "no_recipients",
			msg:     Message{From: "bot@example.com"},
			wantErr: true,
			errIs:   ErrNoRecipients,
		},
		{
			name:    "invalid_sender",
			msg:     Message{From: "not an address", To: []string{"pizzeria@example.com"}},
			wantErr: true,
		},
		{
			name:    "invalid_recipient",
			msg:     Message{From: "bot@example.com", To: []string{"@@"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gm, err := buildMessage(tt.msg)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				assert.Nil(t, gm)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, gm)
			assert.Equal(t, []string{"Order"}, gm.GetGenHeader("Subject"))
		})
	}
}

func TestSMTPMailer_Send_InvalidMessageReachesNobody(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 2525, Timeout: time.Second})

	sent, err := m.Send(context.Background(), Message{From: "bot@example.com"})

	require.ErrorIs(t, err, ErrNoRecipients)
	assert.Zero(t, sent)
}

func TestNewSMTPMailer_DefaultTimeout(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "localhost"})
	assert.Equal(t, 10*time.Second, m.cfg.Timeout)
}
