package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Mdx2025/emailbot-backend/interfaces"
	"github.com/Mdx2025/emailbot-backend/internal/enum"
	"github.com/Mdx2025/emailbot-backend/internal/models"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
	"github.com/Mdx2025/emailbot-backend/internal/utils"
)

// draftFileRepository is the document-per-record backend: one JSON file per
// draft under root/drafts. Observable semantics match the Postgres backend.
type draftFileRepository struct {
	mu     sync.RWMutex
	dir    string
	drafts map[string]*models.Draft
}

func NewDraftFileRepository(root string) (interfaces.DraftRepository, error) {
	dir := filepath.Join(root, "drafts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create draft store directory")
	}

	r := &draftFileRepository{
		dir:    dir,
		drafts: make(map[string]*models.Draft),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *draftFileRepository) load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return errors.Wrap(err, "failed to read draft store directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return errors.Wrap(err, entry.Name())
		}
		var draft models.Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			return errors.Wrap(err, entry.Name())
		}
		r.drafts[draft.ID] = &draft
	}
	return nil
}

// saveLocked writes a single draft record; caller holds the write lock.
func (r *draftFileRepository) saveLocked(draft *models.Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(r.dir, draft.ID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (r *draftFileRepository) Create(ctx context.Context, draft *models.Draft) (string, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.Create")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	if draft == nil {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !draft.IsFollowup {
		for _, existing := range r.drafts {
			if !existing.IsFollowup && existing.ExternalID == draft.ExternalID && existing.ThreadID == draft.ThreadID {
				span.SetTag("duplicate", true)
				return existing.ID, nil
			}
		}
	}

	if draft.ID == "" {
		draft.ID = utils.GenerateNanoIDWithPrefix("draft", 16)
	}
	if draft.GeneratedAt.IsZero() {
		draft.GeneratedAt = utils.Now()
	}
	draft.UpdatedAt = draft.GeneratedAt

	stored := *draft
	r.drafts[stored.ID] = &stored
	if err := r.saveLocked(&stored); err != nil {
		delete(r.drafts, stored.ID)
		tracing.TraceErr(span, err)
		return "", err
	}
	return stored.ID, nil
}

func (r *draftFileRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.RLock()
	defer r.mu.RUnlock()

	draft, ok := r.drafts[id]
	if !ok {
		return nil, nil
	}
	copied := *draft
	return &copied, nil
}

func (r *draftFileRepository) GetBySource(ctx context.Context, externalID, threadID string) (*models.Draft, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.GetBySource")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, draft := range r.drafts {
		if !draft.IsFollowup && draft.ExternalID == externalID && draft.ThreadID == threadID {
			copied := *draft
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *draftFileRepository) ListByStatus(ctx context.Context, status enum.DraftStatus) ([]*models.Draft, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.ListByStatus")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.RLock()
	defer r.mu.RUnlock()

	drafts := make([]*models.Draft, 0, len(r.drafts))
	for _, draft := range r.drafts {
		if status != "" && draft.Status != status {
			continue
		}
		copied := *draft
		drafts = append(drafts, &copied)
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].GeneratedAt.After(drafts[j].GeneratedAt)
	})
	return drafts, nil
}

func (r *draftFileRepository) Update(ctx context.Context, draft *models.Draft) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.Update")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.Lock()
	defer r.mu.Unlock()

	draft.UpdatedAt = utils.Now()
	stored := *draft
	r.drafts[stored.ID] = &stored
	if err := r.saveLocked(&stored); err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

// UpdateSyncState merges only the sync columns into the stored record; the
// rest of the draft, including any status change that landed meanwhile, is
// left as is.
func (r *draftFileRepository) UpdateSyncState(ctx context.Context, id string, syncedToCRM bool, lastSyncError, crmRecordID string) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.UpdateSyncState")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[id]
	if !ok {
		return nil
	}

	updated := *draft
	updated.SyncedToCRM = syncedToCRM
	updated.LastSyncError = lastSyncError
	updated.CRMRecordID = crmRecordID
	updated.UpdatedAt = utils.Now()

	r.drafts[id] = &updated
	if err := r.saveLocked(&updated); err != nil {
		r.drafts[id] = draft
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}

func (r *draftFileRepository) Upsert(ctx context.Context, draft *models.Draft) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "draftFileRepository.Upsert")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	if draft.ID == "" {
		return r.Create(ctx, draft)
	}

	r.mu.RLock()
	_, exists := r.drafts[draft.ID]
	r.mu.RUnlock()

	if !exists {
		return r.Create(ctx, draft)
	}
	if err := r.Update(ctx, draft); err != nil {
		return "", err
	}
	return draft.ID, nil
}

func (r *draftFileRepository) ListPendingSync(ctx context.Context) ([]*models.Draft, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "draftFileRepository.ListPendingSync")
	defer span.Finish()
	tracing.TagComponentFileRepository(span)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var drafts []*models.Draft
	for _, draft := range r.drafts {
		if !draft.SyncedToCRM && draft.LastSyncError != "" {
			copied := *draft
			drafts = append(drafts, &copied)
		}
	}

	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].GeneratedAt.After(drafts[j].GeneratedAt)
	})
	return drafts, nil
}
