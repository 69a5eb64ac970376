package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// processedMessageFileRepository keeps the dedupe ledger in a single JSON
// document next to the draft files.
type processedMessageFileRepository struct {
	mu       sync.RWMutex
	path     string
	messages map[string]*models.ProcessedMessage
}

func NewProcessedMessageFileRepository(root string) (interfaces.ProcessedMessageRepository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create store directory")
	}

	r := &processedMessageFileRepository{
		path:     filepath.Join(root, "processed_messages.json"),
		messages: make(map[string]*models.ProcessedMessage),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *processedMessageFileRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read processed message ledger")
	}

	var messages []*models.ProcessedMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return errors.Wrap(err, "failed to parse processed message ledger")
	}
	for _, m := range messages {
		r.messages[m.ExternalID] = m
	}
	return nil
}

func (r *processedMessageFileRepository) saveLocked() error {
	messages := make([]*models.ProcessedMessage, 0, len(r.messages))
	for _, m := range r.messages {
		messages = append(messages, m)
	}

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

func (r *processedMessageFileRepository) Create(ctx context.Context, message *models.ProcessedMessage) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "processedMessageFileRepository.Create")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	if message == nil {
		return nil
	}
	message.ExternalID = utils.NormalizeMessageID(message.ExternalID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.messages[message.ExternalID]; exists {
		span.SetTag("duplicate", true)
		return nil
	}

	if message.ID == "" {
		message.ID = utils.GenerateNanoIDWithPrefix("pmsg", 12)
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = utils.Now()
	}

	r.messages[message.ExternalID] = message
	if err := r.saveLocked(); err != nil {
		delete(r.messages, message.ExternalID)
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (r *processedMessageFileRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "processedMessageFileRepository.Exists")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.messages[utils.NormalizeMessageID(externalID)]
	return exists, nil
}
