package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/auditflow/internal/model"
	"github.com/nao1215/auditflow/internal/storage"
)

const (
	// HistorySlot is the storage key holding the serialized history.
	HistorySlot = "audit_history"

	// MaxHistory is the maximum number of reports kept.
	MaxHistory = 10
)

// History is the bounded, most-recent-first list of past reports.
// Every mutation is written through to the backing store.
type History struct {
	mu      sync.RWMutex
	store   storage.Store
	logger  *slog.Logger
	entries []*model.AuditReport
}

// LoadHistory reads the history slot from store once.
// A missing slot yields an empty history. Unreadable or malformed data also
// yields an empty history and a warning; individual entries that fail
// validation are dropped. A nil store keeps the history in memory only.
func LoadHistory(ctx context.Context, store storage.Store, logger *slog.Logger) *History {
	if logger == nil {
		logger = slog.Default()
	}
	h := &History{
		store:  store,
		logger: logger,
	}
	if store == nil {
		return h
	}

	data, err := store.Get(ctx, HistorySlot)
	if errors.Is(err, storage.ErrNotFound) {
		return h
	}
	if err != nil {
		logger.Warn("failed to read history, starting empty", "error", err)
		return h
	}

	var stored []*model.AuditReport
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("history is malformed, starting empty", "error", err)
		return h
	}

	for i, report := range stored {
		if err := report.Validate(); err != nil {
			logger.Warn("dropping invalid history entry", "index", i, "error", err)
			continue
		}
		h.entries = append(h.entries, report)
		if len(h.entries) == MaxHistory {
			break
		}
	}
	return h
}

// Add prepends report and truncates the history to MaxHistory entries.
// The in-memory history is updated even when persisting fails; the
// persistence error is returned for the caller to report.
func (h *History) Add(ctx context.Context, report *model.AuditReport) error {
	if report == nil {
		return ErrNilReport
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entries := make([]*model.AuditReport, 0, MaxHistory)
	entries = append(entries, report)
	entries = append(entries, h.entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	h.entries = entries

	return h.persistLocked(ctx)
}

// Clear empties the history and deletes the storage slot.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	if h.store == nil {
		return nil
	}
	if err := h.store.Delete(ctx, HistorySlot); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Entries returns the reports, most recent first.
func (h *History) Entries() []*model.AuditReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*model.AuditReport(nil), h.entries...)
}

// Recent returns at most n reports, most recent first.
func (h *History) Recent(n int) []*model.AuditReport {
	entries := h.Entries()
	if n < 0 {
		n = 0
	}
	if n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Find returns the report with the given id.
func (h *History) Find(id string) (*model.AuditReport, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, report := range h.entries {
		if report.ID == id {
			return report, true
		}
	}
	return nil, false
}

// Len returns the number of reports.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// LastSaved returns when the history slot was last written. ok is false
// when nothing has been saved or the store does not record write times.
func (h *History) LastSaved(ctx context.Context) (saved time.Time, ok bool) {
	ts, isTimestamper := h.store.(storage.Timestamper)
	if !isTimestamper {
		return time.Time{}, false
	}

	saved, err := ts.UpdatedAt(ctx, HistorySlot)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.logger.Debug("failed to read history save time", "error", err)
		}
		return time.Time{}, false
	}
	return saved, true
}

// persistLocked writes the whole history to the slot. Callers hold h.mu.
func (h *History) persistLocked(ctx context.Context) error {
	if h.store == nil {
		return nil
	}

	entries := h.entries
	if entries == nil {
		entries = []*model.AuditReport{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := h.store.Put(ctx, HistorySlot, data); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
