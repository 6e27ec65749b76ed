package valuations

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/vadiminshakov/splvaluer/internal/domain"
)

const (
	defaultValuationDir   = "./wal/valuations"
	valuationSegmentLimit = 1000
	valuationMaxSegments  = 100
	valuationKeyPrefix    = "valuation_"
)

// WALStore persists account valuations in a WAL so past runs can be listed.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed valuation store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultValuationDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "valuation_",
		SegmentThreshold: valuationSegmentLimit,
		MaxSegments:      valuationMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init valuation WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the snapshots in order. Every snapshot needs an account.
func (s *WALStore) Save(snapshots ...domain.ValuationSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snapshot := range snapshots {
		if snapshot.Account == "" {
			return fmt.Errorf("valuation snapshot account is required")
		}

		payload, err := json.Marshal(snapshot)
		if err != nil {
			return errors.Wrap(err, "marshal valuation snapshot")
		}

		key := valuationKeyPrefix + snapshot.Account
		if err := s.wal.Write(s.wal.CurrentIndex()+1, key, payload); err != nil {
			return errors.Wrapf(err, "write valuation of %s", snapshot.Account)
		}
	}

	return nil
}

// SnapshotsAfter returns all valuations written after the provided WAL index.
func (s *WALStore) SnapshotsAfter(index uint64) ([]domain.ValuationSnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("valuation store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ValuationSnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, valuationKeyPrefix) {
			continue
		}
		var snapshot domain.ValuationSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode valuation snapshot")
		}
		records = append(records, domain.ValuationSnapshotRecord{
			Index:    idx,
			Snapshot: snapshot,
		})
	}

	return records, nil
}

// Last returns at most n of the most recent valuations, oldest first.
func (s *WALStore) Last(n int) ([]domain.ValuationSnapshotRecord, error) {
	current := s.CurrentIndex()
	var from uint64
	if n > 0 && uint64(n) < current {
		from = current - uint64(n)
	}
	return s.SnapshotsAfter(from)
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
