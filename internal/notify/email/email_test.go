package email

import (
	"testing"

	"github.com/mmc-gaming/clanhub/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSendContactMessage_Disabled(t *testing.T) {
	n := New(&config.EmailConfig{Enabled: false, ContactAddress: "ops@example.com"})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.SendContactMessage(ContactMessage{Name: "A", Email: "a@example.com", Message: "hi"}))
}

func TestEnabled_RequiresContactAddress(t *testing.T) {
	assert.False(t, New(&config.EmailConfig{Enabled: true}).Enabled())
	assert.True(t, New(&config.EmailConfig{Enabled: true, ContactAddress: "ops@example.com"}).Enabled())
	assert.False(t, New(nil).Enabled())
}

func TestSendContactMessage_UnreachableServer(t *testing.T) {
	n := New(&config.EmailConfig{
		Enabled:        true,
		SMTPHost:       "127.0.0.1",
		SMTPPort:       1,
		FromEmail:      "portal@example.com",
		ContactAddress: "ops@example.com",
	})
	err := n.SendContactMessage(ContactMessage{Name: "A", Email: "a@example.com", Message: "hi"})
	assert.Error(t, err)
}

func TestContactBody(t *testing.T) {
	body := contactBody(ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Hello there", Username: "ann42"})
	assert.Contains(t, body, "Name: Ann\n")
	assert.Contains(t, body, "Email: ann@example.com\n")
	assert.Contains(t, body, "Account: ann42\n")
	assert.Contains(t, body, "Hello there")

	body = contactBody(ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "x"})
	assert.NotContains(t, body, "Account:")
}
