package mailbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/internal/models"
)

func replyConfig() *config.MailboxConfig {
	return &config.MailboxConfig{
		FromAddress:  "studio@agency.io",
		FromName:     "The Studio",
		SenderDomain: "agency.io",
	}
}

func TestBuildReply(t *testing.T) {
	draft := &models.Draft{
		ID:          "draft_1",
		ClientEmail: "maria@acme.io",
		ClientName:  "Maria Lopez",
		ExternalID:  "original-msg@acme.io",
		ThreadID:    "thread-root@acme.io",
		Subject:     "Re: Website project",
		Content:     "Hi Maria,\n\nThanks for reaching out.",
	}

	raw, messageID := BuildReply(replyConfig(), draft)
	message := string(raw)

	assert.True(t, strings.HasPrefix(messageID, "<"))
	assert.True(t, strings.HasSuffix(messageID, "@agency.io>"))

	headerBlock, body, found := strings.Cut(message, "\r\n\r\n")
	require.True(t, found)

	assert.Contains(t, headerBlock, "From: The Studio <studio@agency.io>")
	assert.Contains(t, headerBlock, "To: Maria Lopez <maria@acme.io>")
	// The reply prefix is normalized, never stacked.
	assert.Contains(t, headerBlock, "Subject: Re: Website project")
	assert.NotContains(t, headerBlock, "Re: Re:")
	assert.Contains(t, headerBlock, "Message-ID: "+messageID)
	assert.Contains(t, headerBlock, "In-Reply-To: <original-msg@acme.io>")
	assert.Contains(t, headerBlock, "References: <thread-root@acme.io> <original-msg@acme.io>")
	assert.Contains(t, headerBlock, "Content-Type: text/plain; charset=UTF-8")

	assert.Equal(t, "Hi Maria,\n\nThanks for reaching out.\r\n", body)
}

func TestBuildReply_EmptySubjectFallback(t *testing.T) {
	draft := &models.Draft{
		ClientEmail: "maria@acme.io",
		ExternalID:  "msg-1@acme.io",
		ThreadID:    "msg-1@acme.io",
		Content:     "Hello",
	}

	raw, _ := BuildReply(replyConfig(), draft)
	message := string(raw)

	assert.Contains(t, message, "Subject: Re: your inquiry")
	// Thread id equals the message id, so References carries it once.
	assert.Contains(t, message, "References: <msg-1@acme.io>\r\n")
	assert.NotContains(t, message, "<msg-1@acme.io> <msg-1@acme.io>")
}

func TestBuildReply_NoClientNameUsesBareAddress(t *testing.T) {
	draft := &models.Draft{
		ClientEmail: "maria@acme.io",
		Content:     "Hello",
	}

	raw, _ := BuildReply(replyConfig(), draft)

	assert.Contains(t, string(raw), "To: maria@acme.io\r\n")
}
