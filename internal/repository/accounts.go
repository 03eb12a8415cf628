// Package repository holds the authoritative in-memory account collection and
// writes it through to a storage medium after every mutation.
package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/lostprophetsco/saasoft-tz/internal/metrics"
	"github.com/lostprophetsco/saasoft-tz/internal/models"
	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// StorageKey is the medium key under which the whole collection is stored.
const StorageKey = "accounts"

// Operation names reported to metrics.
const (
	opAdd    = "add"
	opUpdate = "update"
	opSave   = "save"
	opDelete = "delete"
)

// Option configures an AccountRepository.
type Option func(*AccountRepository)

// WithMetrics attaches a metrics recorder to the repository.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(r *AccountRepository) {
		r.metrics = rec
	}
}

// AccountRepository owns the account collection and the id sequence.
//
// Every method holds the same mutex for its whole duration, persist
// included, so the stored blob always matches the collection as of the last
// completed mutation. Storage failures are logged and counted but never
// returned: in-memory state stays authoritative for the rest of the process.
type AccountRepository struct {
	mu       sync.Mutex
	accounts []models.Account
	nextID   int
	// dirty is set while the stored blob lags behind the collection.
	dirty bool

	medium  storage.Medium
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewAccountRepository creates an empty repository backed by medium.
// Call Hydrate to load previously persisted accounts.
func NewAccountRepository(medium storage.Medium, log *zap.Logger, opts ...Option) *AccountRepository {
	if log == nil {
		log = zap.NewNop()
	}
	r := &AccountRepository{
		accounts: []models.Account{},
		nextID:   1,
		medium:   medium,
		log:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add assigns the next sequential id to data, marks it new and unsaved,
// appends it to the collection and persists. Any id already set on data is
// discarded.
//
// Returns a copy of the stored account.
func (r *AccountRepository) Add(ctx context.Context, data models.Account) models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc := data.Clone()
	acc.ID = strconv.Itoa(r.nextID)
	acc.IsNew = true
	acc.IsSaved = false
	r.nextID++

	r.accounts = append(r.accounts, acc)
	r.persistLocked(ctx)
	r.metrics.Operation(opAdd, true)

	r.log.Debug("account added", zap.String("id", acc.ID), zap.String("type", string(acc.Type)))
	return acc.Clone()
}

// Update replaces the account with the same id in place and persists.
// Unknown ids are ignored; the result reports whether anything changed.
func (r *AccountRepository) Update(ctx context.Context, a models.Account) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(r.accounts, func(item models.Account) bool { return item.ID == a.ID })
	if !ok {
		r.log.Debug("update of unknown account ignored", zap.String("id", a.ID))
		r.metrics.Operation(opUpdate, false)
		return false
	}

	r.accounts[idx] = a.Clone()
	r.persistLocked(ctx)
	r.metrics.Operation(opUpdate, true)
	return true
}

// Save commits a only when a.IsReadyForSave is set. On commit the stored
// record is marked not new and saved, then persisted. A record that is not
// ready, or an unknown id, leaves the collection untouched.
func (r *AccountRepository) Save(ctx context.Context, a models.Account) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(r.accounts, func(item models.Account) bool { return item.ID == a.ID })
	if !ok {
		r.log.Debug("save of unknown account ignored", zap.String("id", a.ID))
		r.metrics.Operation(opSave, false)
		return false
	}
	if !a.IsReadyForSave {
		r.log.Info("account not ready for save", zap.String("id", a.ID))
		r.metrics.SaveRejected()
		r.metrics.Operation(opSave, false)
		return false
	}

	acc := a.Clone()
	acc.IsNew = false
	acc.IsSaved = true
	r.accounts[idx] = acc
	r.persistLocked(ctx)
	r.metrics.Operation(opSave, true)

	r.log.Info("account saved", zap.String("id", acc.ID))
	return true
}

// Delete removes the account with the given id and persists.
// Unknown ids are ignored and nothing is written.
func (r *AccountRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(r.accounts, func(item models.Account) bool { return item.ID == id })
	if !ok {
		r.log.Debug("delete of unknown account ignored", zap.String("id", id))
		r.metrics.Operation(opDelete, false)
		return false
	}

	r.accounts = append(r.accounts[:idx], r.accounts[idx+1:]...)
	r.persistLocked(ctx)
	r.metrics.Operation(opDelete, true)

	r.log.Info("account deleted", zap.String("id", id))
	return true
}

// Persist writes the whole collection to the medium under StorageKey.
func (r *AccountRepository) Persist(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persistLocked(ctx)
}

// persistLocked reports whether the write succeeded.
func (r *AccountRepository) persistLocked(ctx context.Context) bool {
	r.metrics.SetAccounts(countSaved(r.accounts))

	data, err := json.Marshal(r.accounts)
	if err != nil {
		r.log.Error("failed to encode accounts", zap.Error(err))
		r.metrics.PersistFailed()
		r.dirty = true
		return false
	}
	if err := r.medium.Set(ctx, StorageKey, string(data)); err != nil {
		r.log.Error("failed to persist accounts", zap.Error(err), zap.Int("count", len(r.accounts)))
		r.metrics.PersistFailed()
		r.dirty = true
		return false
	}
	r.dirty = false
	return true
}

// Hydrate replaces the collection with the one stored under StorageKey and
// moves the id sequence past the highest numeric id found. Absent,
// unreadable or malformed data leaves the current collection unchanged.
func (r *AccountRepository) Hydrate(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.medium.Get(ctx, StorageKey)
	if err != nil {
		r.log.Error("failed to read accounts", zap.Error(err))
		return
	}
	if !ok {
		r.log.Debug("no stored accounts")
		return
	}

	var stored []models.Account
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.log.Error("failed to decode stored accounts", zap.Error(err))
		return
	}
	if stored == nil {
		stored = []models.Account{}
	}

	r.accounts = stored
	r.nextID = NextID(stored)
	r.dirty = false
	r.metrics.SetAccounts(countSaved(stored))

	r.log.Info("accounts loaded", zap.Int("count", len(stored)), zap.Int("next_id", r.nextID))
}

// Accounts returns a copy of the collection in insertion order.
func (r *AccountRepository) Accounts() []models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(r.accounts)
}

// SavedAccounts returns copies of the accounts whose IsSaved flag is set.
func (r *AccountRepository) SavedAccounts() []models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAll(SavedAccounts(r.accounts))
}

// HasLocalAccounts reports whether any stored account has the Local type.
func (r *AccountRepository) HasLocalAccounts() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return HasLocalAccounts(r.accounts)
}

// Get returns a copy of the account with the given id.
func (r *AccountRepository) Get(id string) (models.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := lo.Find(r.accounts, func(item models.Account) bool { return item.ID == id })
	if !ok {
		return models.Account{}, false
	}
	return acc.Clone(), true
}

// SavedAccounts filters list down to saved accounts.
func SavedAccounts(list []models.Account) []models.Account {
	return lo.Filter(list, func(a models.Account, _ int) bool { return a.IsSaved })
}

// HasLocalAccounts reports whether list contains a Local account.
func HasLocalAccounts(list []models.Account) bool {
	return lo.ContainsBy(list, func(a models.Account) bool { return a.Type == models.TypeLocal })
}

// NextID returns one past the highest numeric id in list. Ids that do not
// parse as integers count as zero.
func NextID(list []models.Account) int {
	highest := lo.Reduce(list, func(agg int, a models.Account, _ int) int {
		n, err := strconv.Atoi(a.ID)
		if err != nil {
			return agg
		}
		return max(agg, n)
	}, 0)
	return highest + 1
}

func countSaved(list []models.Account) (saved, unsaved int) {
	saved = lo.CountBy(list, func(a models.Account) bool { return a.IsSaved })
	return saved, len(list) - saved
}

func cloneAll(list []models.Account) []models.Account {
	return lo.Map(list, func(a models.Account, _ int) models.Account { return a.Clone() })
}
