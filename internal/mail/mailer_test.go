package mail

import (
	"errors"
	"testing"

	gomail "github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/require"
)

func restoreDialAndSend() {
	dialAndSend = func(d *gomail.Dialer, msg *gomail.Message) error {
		return d.DialAndSend(msg)
	}
}

func TestSendWelcome(t *testing.T) {
	t.Run("renders templates and sends", func(t *testing.T) {
		t.Cleanup(restoreDialAndSend)
		var sent *gomail.Message
		dialAndSend = func(_ *gomail.Dialer, msg *gomail.Message) error {
			sent = msg
			return nil
		}

		m := New("smtp.example.com", 25, "user", "pass", "noreply@example.com")
		require.NoError(t, m.SendWelcome("alice@example.com", "alice"))

		require.NotNil(t, sent)
		require.Equal(t, []string{"alice@example.com"}, sent.GetHeader("To"))
		require.Equal(t, []string{"noreply@example.com"}, sent.GetHeader("From"))
		require.NotEmpty(t, sent.GetHeader("Subject"))
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Cleanup(restoreDialAndSend)
		attempts := 0
		dialAndSend = func(_ *gomail.Dialer, _ *gomail.Message) error {
			attempts++
			if attempts < 3 {
				return errors.New("connection reset")
			}
			return nil
		}

		m := New("smtp.example.com", 25, "", "", "noreply@example.com")
		require.NoError(t, m.SendWelcome("alice@example.com", "alice"))
		require.Equal(t, 3, attempts)
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		t.Cleanup(restoreDialAndSend)
		attempts := 0
		dialAndSend = func(_ *gomail.Dialer, _ *gomail.Message) error {
			attempts++
			return errors.New("connection refused")
		}

		m := New("smtp.example.com", 25, "", "", "noreply@example.com")
		require.Error(t, m.SendWelcome("alice@example.com", "alice"))
		require.Equal(t, 3, attempts)
	})
}
