package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-publisher-platform/internal/config"
)

func TestGenerateExpiryContent(t *testing.T) {
	sender := NewSMTPEmailSender(config.Config{})

	subject, htmlBody, textBody, err := sender.generateExpiryContent(ExpiryAlertData{
		UserName:     "Dana",
		PlatformName: "Facebook",
		ExpiryDate:   time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		DaysLeft:     14,
	})
	require.NoError(t, err)

	assert.Equal(t, "Facebook access token expires in 14 days", subject)
	assert.Contains(t, htmlBody, "Hello Dana")
	assert.Contains(t, htmlBody, "Sep 15, 2026")
	assert.Contains(t, textBody, "Facebook access token expires on Sep 15, 2026")
}
