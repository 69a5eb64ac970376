package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/dto"
	"github.com/Mdx2025/emailbot-backend/interfaces"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// Headers carried into the normalized message for the auto-response check.
var forwardedHeaders = []string{
	"Auto-Submitted",
	"X-Autoreply",
	"X-Autoresponse",
	"Precedence",
	"List-Unsubscribe",
}

type mailboxService struct {
	config *config.MailboxConfig
}

func NewMailboxService(cfg *config.MailboxConfig) interfaces.MailboxService {
	return &mailboxService{
		config: cfg,
	}
}

// ListMessages returns the UIDs of matching messages in the configured
// folder, newest last. An empty query selects unseen messages.
func (s *mailboxService) ListMessages(ctx context.Context, query string, limit int) ([]string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxService.ListMessages")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("folder", s.config.Folder)

	c, err := s.connect(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	defer c.Logout()

	_, err = c.Select(s.config.Folder, true)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to select folder %s", s.config.Folder)
	}

	criteria := imap.NewSearchCriteria()
	if query == "" {
		criteria.WithoutFlags = []string{imap.SeenFlag}
	} else {
		criteria.Text = []string{query}
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "mailbox search failed")
	}

	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, strconv.FormatUint(uint64(uid), 10))
	}

	span.SetTag("result.count", len(ids))
	return ids, nil
}

// GetMessage fetches one message by UID and normalizes it. The plain-text
// part is preferred; HTML-only messages are converted to text.
func (s *mailboxService) GetMessage(ctx context.Context, id string) (*dto.InboundMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxService.GetMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("uid", id)

	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "invalid message id %s", id)
	}

	c, err := s.connect(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	defer c.Logout()

	_, err = c.Select(s.config.Folder, true)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to select folder %s", s.config.Folder)
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uint32(uid))

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchInternalDate,
		imap.FetchUid,
		section.FetchItem(),
	}

	messages := make(chan *imap.Message, 1)
	if err := c.UidFetch(seqSet, items, messages); err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "fetch failed")
	}

	msg, ok := <-messages
	if !ok || msg == nil {
		tracing.TraceErr(span, er.ErrMessageNotFound)
		return nil, er.ErrMessageNotFound
	}

	literal := msg.GetBody(section)
	if literal == nil {
		tracing.TraceErr(span, er.ErrMessageNotFound)
		return nil, er.ErrMessageNotFound
	}

	envelope, err := enmime.ReadEnvelope(literal)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to parse message")
	}

	inbound := s.normalize(envelope, msg, id)
	span.SetTag("externalId", inbound.ExternalID)
	return inbound, nil
}

// SendMessage submits a prepared RFC 2822 message over SMTP. Recipients are
// taken from the message's own To header.
func (s *mailboxService) SendMessage(ctx context.Context, raw []byte) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "mailboxService.SendMessage")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	envelope, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to parse outbound message")
	}

	recipients := recipientAddresses(envelope)
	if len(recipients) == 0 {
		err = errors.New("outbound message has no recipients")
		tracing.TraceErr(span, err)
		return "", err
	}

	if err := s.sendToServer(ctx, s.config.FromAddress, recipients, raw); err != nil {
		tracing.TraceErr(span, err)
		return "", err
	}

	messageID := utils.NormalizeMessageID(envelope.GetHeader("Message-ID"))
	span.SetTag("messageId", messageID)
	return messageID, nil
}

func (s *mailboxService) connect(ctx context.Context) (*client.Client, error) {
	addr := fmt.Sprintf("%s:%s", s.config.IMAPHost, s.config.IMAPPort)

	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to IMAP server %s", addr)
	}

	if err := c.Login(s.config.Username, s.config.Password); err != nil {
		c.Logout()
		return nil, errors.Wrap(err, "IMAP login failed")
	}

	return c, nil
}

func (s *mailboxService) normalize(envelope *enmime.Envelope, msg *imap.Message, uid string) *dto.InboundMessage {
	body := strings.TrimSpace(envelope.Text)
	if body == "" && envelope.HTML != "" {
		if text, err := html2text.FromString(envelope.HTML, html2text.Options{TextOnly: true}); err == nil {
			body = strings.TrimSpace(text)
		}
	}
	if body == "" {
		body = strings.TrimSpace(envelope.GetHeader("Subject"))
	}

	externalID := utils.NormalizeMessageID(envelope.GetHeader("Message-ID"))
	if externalID == "" {
		externalID = "uid-" + uid
	}

	headers := make(map[string]string)
	for _, name := range forwardedHeaders {
		if value := envelope.GetHeader(name); value != "" {
			headers[name] = value
		}
	}

	from := envelope.GetHeader("From")

	inbound := &dto.InboundMessage{
		ExternalID:  externalID,
		ThreadID:    threadID(envelope, externalID),
		Subject:     envelope.GetHeader("Subject"),
		FromAddress: utils.ExtractAddressFromHeader(from),
		FromName:    utils.ExtractNameFromHeader(from),
		Body:        body,
		Headers:     headers,

		// Thread recency is computed by the caller over the fetched batch.
		LatestInThread: true,
	}

	if msg != nil && !msg.InternalDate.IsZero() {
		received := msg.InternalDate.UTC()
		inbound.ReceivedAt = &received
	}

	return inbound
}

// threadID anchors a thread on the first referenced message id, falling back
// to the message's own id for thread starters.
func threadID(envelope *enmime.Envelope, externalID string) string {
	if references := envelope.GetHeader("References"); references != "" {
		parts := strings.Fields(references)
		if len(parts) > 0 {
			return utils.NormalizeMessageID(parts[0])
		}
	}
	if inReplyTo := envelope.GetHeader("In-Reply-To"); inReplyTo != "" {
		return utils.NormalizeMessageID(inReplyTo)
	}
	return externalID
}

func recipientAddresses(envelope *enmime.Envelope) []string {
	var recipients []string
	addresses, err := envelope.AddressList("To")
	if err != nil {
		return recipients
	}
	for _, address := range addresses {
		recipients = append(recipients, address.Address)
	}
	return recipients
}
