// Package sync replays queued offline writes against the upstream.
//
// A drain cycle walks the queue strictly in id order and awaits every
// replay before issuing the next one. A transient failure stops the cycle,
// a terminal one marks the action failed and the cycle continues.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/courtside/internal/client/api"
	"github.com/iudanet/courtside/internal/client/auth"
	"github.com/iudanet/courtside/internal/client/connectivity"
	"github.com/iudanet/courtside/internal/client/storage"
	"github.com/iudanet/courtside/internal/models"
	pkgapi "github.com/iudanet/courtside/pkg/api"
)

// DefaultRetention - сколько хранятся синхронизированные операции
const DefaultRetention = 7 * 24 * time.Hour

// DefaultMinTriggerInterval - минимальный интервал между автоматическими циклами
const DefaultMinTriggerInterval = 2 * time.Second

var (
	// ErrInvalidAction indicates that an action cannot be queued as given
	ErrInvalidAction = errors.New("invalid action")

	// ErrNotFailed indicates that a retry or dismiss targeted an action that is not failed
	ErrNotFailed = errors.New("action is not in failed state")

	// ErrDependencyFailed indicates that the parent action failed terminally
	ErrDependencyFailed = errors.New("dependency failed")

	// ErrDependencyMissing indicates that the parent action is no longer in the queue
	ErrDependencyMissing = errors.New("dependency not found in queue")

	// ErrDependencyNotSynced indicates that the parent action has not reached the server
	ErrDependencyNotSynced = errors.New("dependency not synced")
)

// Trigger is the source of a drain attempt
type Trigger string

const (
	TriggerOnline     Trigger = "online"
	TriggerTimer      Trigger = "timer"
	TriggerManual     Trigger = "manual"
	TriggerBackground Trigger = "background"
)

// Automatic reports whether the trigger was not requested by the user
func (t Trigger) Automatic() bool {
	return t != TriggerManual
}

// Причины пропуска цикла
const (
	skipDraining   = "drain already in progress"
	skipAuthPaused = "paused until re-authentication"
	skipOffline    = "offline"
	skipBackoff    = "waiting for retry backoff"
	skipDebounce   = "too soon after previous automatic drain"
)

//go:generate moq -out replayer_mock.go . Replayer

// Replayer sends one queued write to the upstream
type Replayer interface {
	Replay(ctx context.Context, req api.ReplayRequest) (*api.ReplayResult, error)
}

//go:generate moq -out credentials_mock.go . CredentialSource

// CredentialSource returns the credentials of one drain cycle
type CredentialSource interface {
	Credentials(ctx context.Context) (auth.Credentials, error)
}

//go:generate moq -out notifier_mock.go . Notifier

// Notifier broadcasts drain cycle events to connected pages
type Notifier interface {
	SyncCycleStarting(trigger Trigger)
	SyncCycleFinished(result *pkgapi.SyncResult)
}

// Connectivity reports whether an automatic attempt is permitted
type Connectivity interface {
	IsOnline() bool
}

// Subscriber delivers connectivity transitions
type Subscriber interface {
	Subscribe(fn func(connectivity.Event)) func()
}

// Config настраивает Manager
type Config struct {
	Retention          time.Duration
	BackoffBase        time.Duration
	BackoffMax         time.Duration
	MinTriggerInterval time.Duration
}

// DefaultConfig returns the default manager settings
func DefaultConfig() Config {
	return Config{
		Retention:          DefaultRetention,
		BackoffBase:        DefaultBackoffBase,
		BackoffMax:         DefaultBackoffMax,
		MinTriggerInterval: DefaultMinTriggerInterval,
	}
}

// Deps are the collaborators of Manager.
// State, Notifier and Connectivity are optional.
type Deps struct {
	Queue        storage.QueueStorage
	Metadata     storage.MetadataStorage
	Replayer     Replayer
	Credentials  CredentialSource
	Connectivity Connectivity
	Notifier     Notifier
	State        *DrainState
	Logger       *slog.Logger
}

// Manager owns the sync queue: it accepts new actions and drains them
type Manager struct {
	lastAutoStart time.Time
	nextAttempt   time.Time
	queue         storage.QueueStorage
	metadata      storage.MetadataStorage
	replayer      Replayer
	credentials   CredentialSource
	connectivity  Connectivity
	notifier      Notifier
	state         *DrainState
	ids           *models.IDGenerator
	logger        *slog.Logger
	now           func() time.Time
	cfg           Config
	mu            sync.Mutex
	authPaused    bool
}

// NewManager creates a manager. The id generator is seeded with the highest
// stored action id so ids stay ordered across restarts.
func NewManager(ctx context.Context, deps Deps, cfg Config) (*Manager, error) {
	defaults := DefaultConfig()
	if cfg.Retention <= 0 {
		cfg.Retention = defaults.Retention
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaults.BackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = defaults.BackoffMax
	}
	if cfg.MinTriggerInterval < 0 {
		cfg.MinTriggerInterval = 0
	}

	lastID, err := deps.Queue.LastActionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read last action id: %w", err)
	}
	ids, err := models.NewIDGenerator(lastID)
	if err != nil {
		return nil, err
	}

	state := deps.State
	if state == nil {
		state = NewDrainState()
	}

	return &Manager{
		queue:        deps.Queue,
		metadata:     deps.Metadata,
		replayer:     deps.Replayer,
		credentials:  deps.Credentials,
		connectivity: deps.Connectivity,
		notifier:     deps.Notifier,
		state:        state,
		ids:          ids,
		logger:       deps.Logger,
		now:          time.Now,
		cfg:          cfg,
	}, nil
}

// ReserveActionID returns a fresh action id
func (m *Manager) ReserveActionID() string {
	return m.ids.Next()
}

// Enqueue durably stores a new pending action. A storage failure is
// returned as is: the write was not captured and the caller must know.
func (m *Manager) Enqueue(ctx context.Context, action *models.QueuedAction) (*models.QueuedAction, error) {
	if action == nil {
		return nil, fmt.Errorf("%w: nil action", ErrInvalidAction)
	}
	if _, err := models.MethodFromHTTP(action.HTTPMethod()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	if action.ResourcePath == "" {
		return nil, fmt.Errorf("%w: empty resource path", ErrInvalidAction)
	}

	queued := action.Clone()
	if queued.ID == "" {
		queued.ID = m.ids.Next()
	}
	if _, _, err := models.ParseActionID(queued.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	if queued.DependsOnActionID != "" {
		if _, _, err := models.ParseActionID(queued.DependsOnActionID); err != nil {
			return nil, fmt.Errorf("%w: dependsOn: %w", ErrInvalidAction, err)
		}
		if queued.DependsOnActionID >= queued.ID {
			return nil, fmt.Errorf("%w: dependency %s is not older than %s", ErrInvalidAction, queued.DependsOnActionID, queued.ID)
		}
	}

	queued.Status = models.StatusPending
	queued.EnqueuedAt = m.now().UTC()
	queued.RetryCount = 0
	queued.SyncedAt = nil
	queued.FailedAt = nil
	queued.ServerID = ""
	queued.LastError = ""

	if err := m.queue.SaveAction(ctx, queued); err != nil {
		return nil, fmt.Errorf("failed to queue action: %w", err)
	}

	m.logger.Info("Action queued",
		"action_id", queued.ID,
		"method", queued.Method,
		"resource", queued.ResourcePath,
		"depends_on", queued.DependsOnActionID)

	return queued, nil
}

// MustQueue reports whether a new write has to go through the queue
// instead of straight to the network: an earlier write still waits for
// replay, or dependsOn names an action without a server id yet.
// Failed actions do not hold back new writes.
func (m *Manager) MustQueue(ctx context.Context, dependsOn string) (bool, error) {
	actions, err := m.queue.ListQueue(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read sync queue: %w", err)
	}

	parentReady := dependsOn == ""
	for _, a := range actions {
		if a.Status == models.StatusPending || a.Status == models.StatusSyncing {
			return true, nil
		}
		if a.ID == dependsOn {
			parentReady = a.Status == models.StatusSynced && a.ServerID != ""
		}
	}

	// Родитель, которого нет в очереди, разрешается только при воспроизведении
	return !parentReady, nil
}

// Watch starts an online-triggered drain on every transition to online.
// The returned func unsubscribes.
func (m *Manager) Watch(ctx context.Context, detector Subscriber) func() {
	return detector.Subscribe(func(ev connectivity.Event) {
		if ev != connectivity.WentOnline {
			return
		}
		go m.Trigger(ctx, TriggerOnline)
	})
}

// SyncNow runs a manual drain and returns its result.
// Manual drains ignore backoff, debounce and the auth pause.
func (m *Manager) SyncNow(ctx context.Context) *pkgapi.SyncResult {
	return m.Trigger(ctx, TriggerManual)
}

// Trigger attempts a drain cycle. The Draining flag is taken before any
// blocking call; triggers arriving while a cycle runs are dropped.
func (m *Manager) Trigger(ctx context.Context, trigger Trigger) *pkgapi.SyncResult {
	if trigger.Automatic() {
		if reason := m.admitAutomatic(); reason != "" {
			m.logger.Debug("Drain skipped", "trigger", trigger, "reason", reason)
			return skipped(trigger, reason)
		}
	}

	if !m.state.TryStart() {
		m.logger.Debug("Drain skipped", "trigger", trigger, "reason", skipDraining)
		return skipped(trigger, skipDraining)
	}

	result := func() *pkgapi.SyncResult {
		defer m.state.Finish()

		if trigger.Automatic() {
			m.mu.Lock()
			m.lastAutoStart = m.now()
			m.mu.Unlock()

			if m.notifier != nil {
				m.notifier.SyncCycleStarting(trigger)
			}
		}
		return m.drain(ctx, trigger)
	}()

	// Страницы узнают о завершении, когда состояние уже Idle
	if m.notifier != nil {
		m.notifier.SyncCycleFinished(result)
	}
	return result
}

// admitAutomatic checks connectivity, pause, backoff and debounce.
// It returns the skip reason or "" when the drain may start.
func (m *Manager) admitAutomatic() string {
	if m.connectivity != nil && !m.connectivity.IsOnline() {
		return skipOffline
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	switch {
	case m.authPaused:
		return skipAuthPaused
	case now.Before(m.nextAttempt):
		return skipBackoff
	case !m.lastAutoStart.IsZero() && now.Sub(m.lastAutoStart) < m.cfg.MinTriggerInterval:
		return skipDebounce
	}
	return ""
}

func skipped(trigger Trigger, reason string) *pkgapi.SyncResult {
	return &pkgapi.SyncResult{Trigger: string(trigger), Skipped: true, Error: reason}
}

// drain is one cycle: read the queue, replay pending actions in order, purge
func (m *Manager) drain(ctx context.Context, trigger Trigger) *pkgapi.SyncResult {
	result := &pkgapi.SyncResult{Trigger: string(trigger)}
	m.logger.Info("Drain cycle started", "trigger", trigger)

	actions, err := m.queue.ListQueue(ctx)
	if err != nil {
		m.logger.Error("Failed to read sync queue", "error", err)
		result.Error = err.Error()
		result.Stopped = true
		return result
	}

	if hasPending(actions) {
		m.replayAll(ctx, actions, result)
	}

	m.purge(ctx, result)
	m.finishCycle(ctx)

	m.logger.Info("Drain cycle finished",
		"trigger", trigger,
		"attempted", result.Attempted,
		"synced", result.Synced,
		"failed", result.Failed,
		"purged", result.Purged,
		"stopped", result.Stopped)

	return result
}

func hasPending(actions []*models.QueuedAction) bool {
	for _, a := range actions {
		if a.Status == models.StatusPending || a.Status == models.StatusSyncing {
			return true
		}
	}
	return false
}

// replayAll обрабатывает операции строго по возрастанию id, по одной
func (m *Manager) replayAll(ctx context.Context, actions []*models.QueuedAction, result *pkgapi.SyncResult) {
	creds, err := m.credentials.Credentials(ctx)
	if err != nil {
		result.Error = err.Error()
		result.Stopped = true
		if api.Classify(err) == api.ClassAuthExpired {
			m.pauseForAuth(err)
			return
		}
		m.mu.Lock()
		m.nextAttempt = m.now().Add(m.cfg.BackoffBase)
		m.mu.Unlock()
		m.logger.Warn("Failed to obtain credentials, drain stopped", "error", err)
		return
	}
	m.mu.Lock()
	m.authPaused = false
	m.nextAttempt = time.Time{}
	m.mu.Unlock()

	byID := make(map[string]*models.QueuedAction, len(actions))
	for _, a := range actions {
		byID[a.ID] = a
	}

	for _, action := range actions {
		// Прерванный цикл оставил операцию в syncing - повторяем ее
		if action.Status != models.StatusPending && action.Status != models.StatusSyncing {
			continue
		}
		if ctx.Err() != nil {
			result.Stopped = true
			result.Error = ctx.Err().Error()
			return
		}

		if !m.replayOne(ctx, action, byID, creds, result) {
			result.Stopped = true
			return
		}
	}
}

// replayOne returns false when the cycle must stop
func (m *Manager) replayOne(ctx context.Context, action *models.QueuedAction, byID map[string]*models.QueuedAction,
	creds auth.Credentials, result *pkgapi.SyncResult) bool {
	req, err := m.buildReplay(action, byID, creds)
	if err != nil {
		// Ссылка на родителя не разрешается - повтор не поможет
		result.Failed++
		return m.markFailed(ctx, action, err, result)
	}

	action.Status = models.StatusSyncing
	if err := m.queue.SaveAction(ctx, action); err != nil {
		m.logger.Error("Failed to mark action syncing", "action_id", action.ID, "error", err)
		result.Error = err.Error()
		return false
	}

	result.Attempted++

	// Вызов не прерывается ни детектором, ни отменой цикла: результат
	// оборванного запроса неизвестен
	replayCtx := context.WithoutCancel(ctx)
	resp, replayErr := m.replayer.Replay(replayCtx, req)

	if replayErr == nil {
		now := m.now().UTC()
		action.Status = models.StatusSynced
		action.SyncedAt = &now
		action.FailedAt = nil
		action.LastError = ""
		action.ServerID = resp.ServerID
		if err := m.queue.SaveAction(replayCtx, action); err != nil {
			m.logger.Error("Failed to mark action synced", "action_id", action.ID, "error", err)
			result.Error = err.Error()
			return false
		}
		result.Synced++
		m.logger.Info("Action synced", "action_id", action.ID, "resource", action.ResourcePath, "server_id", action.ServerID)
		return true
	}

	switch class := api.Classify(replayErr); class {
	case api.ClassValidation:
		result.Failed++
		return m.markFailed(replayCtx, action, replayErr, result)

	case api.ClassAuthExpired:
		// Операция не виновата - возвращаем ее в очередь без увеличения счетчика
		action.Status = models.StatusPending
		action.LastError = replayErr.Error()
		if err := m.queue.SaveAction(replayCtx, action); err != nil {
			m.logger.Error("Failed to return action to pending", "action_id", action.ID, "error", err)
		}
		result.Error = replayErr.Error()
		m.pauseForAuth(replayErr)
		return false

	default:
		action.Status = models.StatusPending
		action.RetryCount++
		action.LastError = replayErr.Error()
		if err := m.queue.SaveAction(replayCtx, action); err != nil {
			m.logger.Error("Failed to return action to pending", "action_id", action.ID, "error", err)
		}

		delay := backoff(action.RetryCount, m.cfg.BackoffBase, m.cfg.BackoffMax)
		m.mu.Lock()
		m.nextAttempt = m.now().Add(delay)
		m.mu.Unlock()

		result.Error = replayErr.Error()
		m.logger.Warn("Transient replay failure, drain stopped",
			"action_id", action.ID,
			"class", class,
			"retry_count", action.RetryCount,
			"next_attempt_in", delay,
			"error", replayErr)
		return false
	}
}

// markFailed переводит операцию в failed; цикл продолжается
func (m *Manager) markFailed(ctx context.Context, action *models.QueuedAction, cause error, result *pkgapi.SyncResult) bool {
	now := m.now().UTC()
	action.Status = models.StatusFailed
	action.FailedAt = &now
	action.LastError = cause.Error()

	if err := m.queue.SaveAction(ctx, action); err != nil {
		m.logger.Error("Failed to mark action failed", "action_id", action.ID, "error", err)
		result.Error = err.Error()
		return false
	}

	m.logger.Error("Action failed permanently",
		"action_id", action.ID,
		"method", action.Method,
		"resource", action.ResourcePath,
		"error", cause)
	return true
}

// buildReplay resolves the dependency and every local:<id> reference
func (m *Manager) buildReplay(action *models.QueuedAction, byID map[string]*models.QueuedAction, creds auth.Credentials) (api.ReplayRequest, error) {
	if action.DependsOnActionID != "" {
		if _, err := dependency(byID, action.DependsOnActionID); err != nil {
			return api.ReplayRequest{}, err
		}
	}

	resolve := func(actionID string) (string, error) {
		parent, err := dependency(byID, actionID)
		if err != nil {
			return "", err
		}
		if parent.ServerID == "" {
			return "", fmt.Errorf("%w: %s has no server id", ErrDependencyNotSynced, actionID)
		}
		return parent.ServerID, nil
	}

	path, err := substitutePath(action.ResourcePath, resolve)
	if err != nil {
		return api.ReplayRequest{}, err
	}
	payload, err := substitutePayload(action.Payload, resolve)
	if err != nil {
		return api.ReplayRequest{}, err
	}

	return api.ReplayRequest{
		Method:         action.HTTPMethod(),
		Path:           path,
		IdempotencyKey: action.ID,
		BearerToken:    creds.BearerToken,
		CSRFToken:      creds.CSRFToken,
		Payload:        payload,
	}, nil
}

func dependency(byID map[string]*models.QueuedAction, id string) (*models.QueuedAction, error) {
	parent, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDependencyMissing, id)
	}
	switch parent.Status {
	case models.StatusSynced:
		return parent, nil
	case models.StatusFailed:
		return nil, fmt.Errorf("%w: %s", ErrDependencyFailed, id)
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrDependencyNotSynced, id, parent.Status)
	}
}

func (m *Manager) pauseForAuth(err error) {
	m.mu.Lock()
	m.authPaused = true
	m.mu.Unlock()
	m.logger.Warn("Authentication expired, sync paused until re-authentication", "error", err)
}

func (m *Manager) purge(ctx context.Context, result *pkgapi.SyncResult) {
	purged, err := m.queue.PurgeSynced(ctx, m.now(), m.cfg.Retention)
	if err != nil {
		m.logger.Warn("Failed to purge synced actions", "error", err)
		return
	}
	result.Purged = purged
}

func (m *Manager) finishCycle(ctx context.Context) {
	if m.metadata == nil {
		return
	}
	if err := m.metadata.SaveLastSyncTimestamp(ctx, m.now().Unix()); err != nil {
		m.logger.Warn("Failed to save last sync timestamp", "error", err)
	}
}

// Resume lifts the auth pause after re-authentication
func (m *Manager) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.authPaused {
		m.logger.Info("Sync resumed after re-authentication")
	}
	m.authPaused = false
	m.nextAttempt = time.Time{}
}

// RetryDue reports whether a transient failure scheduled a retry that is now due
func (m *Manager) RetryDue() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.authPaused && !m.nextAttempt.IsZero() && !m.now().Before(m.nextAttempt)
}

// AuthPaused reports whether automatic drains wait for re-authentication
func (m *Manager) AuthPaused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authPaused
}

// RetryFailed returns a failed action to pending with a fresh retry count
func (m *Manager) RetryFailed(ctx context.Context, id string) (*models.QueuedAction, error) {
	action, err := m.queue.GetAction(ctx, id)
	if err != nil {
		return nil, err
	}
	if action.Status != models.StatusFailed {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotFailed, id, action.Status)
	}

	action.Status = models.StatusPending
	action.RetryCount = 0
	action.FailedAt = nil
	action.LastError = ""

	if err := m.queue.SaveAction(ctx, action); err != nil {
		return nil, fmt.Errorf("failed to save action: %w", err)
	}

	m.logger.Info("Failed action returned to queue", "action_id", id)
	return action, nil
}

// Dismiss deletes a failed action
func (m *Manager) Dismiss(ctx context.Context, id string) error {
	action, err := m.queue.GetAction(ctx, id)
	if err != nil {
		return err
	}
	if action.Status != models.StatusFailed {
		return fmt.Errorf("%w: %s is %s", ErrNotFailed, id, action.Status)
	}

	if err := m.queue.DeleteAction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}

	m.logger.Info("Failed action dismissed", "action_id", id, "resource", action.ResourcePath)
	return nil
}
