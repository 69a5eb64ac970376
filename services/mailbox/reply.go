package mailbox

import (
	"bytes"
	"fmt"
	"mime"
	"time"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// BuildReply renders a draft as an RFC 2822 reply on the original thread.
// Returns the raw message and its Message-ID.
func BuildReply(cfg *config.MailboxConfig, draft *models.Draft) ([]byte, string) {
	messageID := utils.GenerateMessageID(cfg.SenderDomain, "")

	subject := utils.NormalizeSubject(draft.Subject)
	if subject == "" {
		subject = "Re: your inquiry"
	} else {
		subject = "Re: " + subject
	}

	headers := [][2]string{
		{"From", formatAddress(cfg.FromName, cfg.FromAddress)},
		{"To", formatAddress(draft.ClientName, draft.ClientEmail)},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Message-ID", angled(messageID)},
		{"Date", utils.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/plain; charset=UTF-8"},
		{"Content-Transfer-Encoding", "8bit"},
	}

	if draft.ExternalID != "" {
		headers = append(headers, [2]string{"In-Reply-To", angled(draft.ExternalID)})
		references := angled(draft.ExternalID)
		if draft.ThreadID != "" && draft.ThreadID != draft.ExternalID {
			references = angled(draft.ThreadID) + " " + references
		}
		headers = append(headers, [2]string{"References", references})
	}

	buffer := bytes.NewBuffer(nil)
	for _, header := range headers {
		buffer.WriteString(fmt.Sprintf("%s: %s\r\n", header[0], header[1]))
	}
	buffer.WriteString("\r\n")
	buffer.WriteString(draft.Content)
	buffer.WriteString("\r\n")

	return buffer.Bytes(), messageID
}

func formatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), address)
}

func angled(messageID string) string {
	if len(messageID) > 0 && messageID[0] == '<' {
		return messageID
	}
	return "<" + messageID + ">"
}
