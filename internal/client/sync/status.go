package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/courtside/internal/models"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// Status derives the status surface from the queue and the manager state.
// Nothing is cached; every call reads the queue.
func (m *Manager) Status(ctx context.Context) (*pkgapi.StatusResponse, error) {
	actions, err := m.queue.ListQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}

	status := &pkgapi.StatusResponse{
		IsSyncing: m.state.IsDraining(),
		Online:    m.connectivity == nil || m.connectivity.IsOnline(),
		Failed:    []pkgapi.FailedAction{},
	}

	var lastFailed *models.QueuedAction
	for _, a := range actions {
		if a.IsOutstanding() {
			status.PendingCount++
		}
		if a.Status != models.StatusFailed {
			continue
		}

		status.Failed = append(status.Failed, pkgapi.FailedAction{
			FailedAt:     a.FailedAt,
			ID:           a.ID,
			Method:       a.HTTPMethod(),
			ResourcePath: a.ResourcePath,
			Error:        a.LastError,
		})
		if lastFailed == nil || failedAfter(a, lastFailed) {
			lastFailed = a
		}
	}
	if lastFailed != nil {
		status.LastError = lastFailed.LastError
	}

	m.mu.Lock()
	status.AuthPaused = m.authPaused
	if !m.nextAttempt.IsZero() && m.nextAttempt.After(m.now()) {
		next := m.nextAttempt
		status.NextAttemptAt = &next
	}
	m.mu.Unlock()

	if m.metadata != nil {
		ts, err := m.metadata.GetLastSyncTimestamp(ctx)
		if err != nil {
			m.logger.Warn("Failed to read last sync timestamp", "error", err)
		} else if ts > 0 {
			lastSync := time.Unix(ts, 0).UTC()
			status.LastSyncAt = &lastSync
		}
	}

	return status, nil
}

// failedAfter reports whether a failed later than b. Ties go to the higher id.
func failedAfter(a, b *models.QueuedAction) bool {
	switch {
	case a.FailedAt == nil:
		return b.FailedAt == nil && a.ID > b.ID
	case b.FailedAt == nil:
		return true
	case a.FailedAt.Equal(*b.FailedAt):
		return a.ID > b.ID
	default:
		return a.FailedAt.After(*b.FailedAt)
	}
}

// Queue lists every queued action in id order
func (m *Manager) Queue(ctx context.Context) ([]pkgapi.QueueItem, error) {
	actions, err := m.queue.ListQueue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}

	items := make([]pkgapi.QueueItem, 0, len(actions))
	for _, a := range actions {
		items = append(items, QueueItemFor(a))
	}
	return items, nil
}

// QueueItemFor converts a queued action into its wire form
func QueueItemFor(a *models.QueuedAction) pkgapi.QueueItem {
	return pkgapi.QueueItem{
		EnqueuedAt:        a.EnqueuedAt,
		SyncedAt:          a.SyncedAt,
		ID:                a.ID,
		Method:            a.HTTPMethod(),
		ResourcePath:      a.ResourcePath,
		Status:            string(a.Status),
		DependsOnActionID: a.DependsOnActionID,
		ServerID:          a.ServerID,
		LastError:         a.LastError,
		RetryCount:        a.RetryCount,
	}
}
