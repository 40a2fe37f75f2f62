package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	providerRepo "islandeats/database/repository/provider"
	"islandeats/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const snapshotKey = "directory:snapshot"
const snapshotTTL = 24 * time.Hour

// Service is the read path the engine uses to resolve providers.
type Service interface {
	Lookup(providerID string) (*models.ProviderRecord, bool)
	Eligible(transportNeeded bool) []models.ProviderRecord
	Refresh(ctx context.Context) error
}

// CachedDirectory serves lookups from an in-memory snapshot, refreshed on
// demand from Mongo. The snapshot is mirrored into Redis so a restart can
// come up even while Mongo is unreachable.
type CachedDirectory struct {
	Repo   providerRepo.ProviderRepository
	Cache  *redis.Client
	Logger *zap.Logger

	mu      sync.RWMutex
	byID    map[string]models.ProviderRecord
	ordered []models.ProviderRecord
}

func NewCachedDirectory(repo providerRepo.ProviderRepository, cache *redis.Client, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{
		Repo:   repo,
		Cache:  cache,
		Logger: logger,
		byID:   make(map[string]models.ProviderRecord),
	}
}

func (d *CachedDirectory) Lookup(providerID string) (*models.ProviderRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.byID[providerID]
	if !ok {
		return nil, false
	}
	cp := rec
	return &cp, true
}

// Eligible returns every provider able to serve the inquiry. When transport
// is requested, providers without pickup capability are filtered out.
func (d *CachedDirectory) Eligible(transportNeeded bool) []models.ProviderRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.ProviderRecord, 0, len(d.ordered))
	for _, rec := range d.ordered {
		if transportNeeded && !rec.TransportCapable {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Refresh reloads the directory from Mongo and rewrites the Redis snapshot.
// On a Mongo failure it falls back to the last snapshot if the in-memory
// view is still empty.
func (d *CachedDirectory) Refresh(ctx context.Context) error {
	records, err := d.Repo.GetAll()
	if err != nil {
		d.Logger.Warn("directory refresh from mongo failed", zap.Error(err))
		if d.loaded() {
			return err
		}
		return d.restoreSnapshot(ctx, err)
	}

	d.swap(records)
	d.Logger.Info("directory refreshed", zap.Int("providers", len(records)))

	if data, merr := json.Marshal(records); merr == nil {
		if cerr := d.Cache.Set(ctx, snapshotKey, data, snapshotTTL).Err(); cerr != nil {
			d.Logger.Warn("failed to write directory snapshot", zap.Error(cerr))
		}
	}
	return nil
}

func (d *CachedDirectory) restoreSnapshot(ctx context.Context, cause error) error {
	data, err := d.Cache.Get(ctx, snapshotKey).Result()
	if err != nil {
		return fmt.Errorf("directory unavailable: mongo: %v, snapshot: %w", cause, err)
	}
	var records []models.ProviderRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return fmt.Errorf("directory snapshot corrupt: %w", err)
	}
	d.swap(records)
	d.Logger.Info("directory restored from snapshot", zap.Int("providers", len(records)))
	return nil
}

func (d *CachedDirectory) swap(records []models.ProviderRecord) {
	byID := make(map[string]models.ProviderRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	d.mu.Lock()
	d.byID = byID
	d.ordered = records
	d.mu.Unlock()
}

func (d *CachedDirectory) loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID) > 0
}
