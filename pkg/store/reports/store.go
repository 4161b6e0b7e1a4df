// Package reports is the append-only report collection. The whole collection
// is serialized under one key and rewritten on every append.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/de-tools/material-atlas/pkg/adapters"
	"github.com/de-tools/material-atlas/pkg/models/domain"
	"github.com/de-tools/material-atlas/pkg/models/store"
	"github.com/de-tools/material-atlas/pkg/store/kv"
	"github.com/rs/zerolog"
)

// DefaultKey is the well-known key of the serialized collection.
const DefaultKey = "material-didatico-reports"

// corruptSuffix names the key that keeps an undecodable collection around
// before the next append overwrites it.
const corruptSuffix = ".corrupt"

type Store interface {
	// Load replaces the in-memory collection with the persisted one. A missing
	// key is an empty collection. Undecodable content also yields an empty
	// collection together with a *domain.StoreCorruptionError.
	Load(ctx context.Context) ([]domain.Report, error)
	// Append adds a report and persists the whole collection. Nothing changes
	// when persisting fails.
	Append(ctx context.Context, report domain.Report) error
	// All returns the collection in insertion order.
	All() []domain.Report
	// Get returns the report with the given id or domain.ErrNotFound.
	Get(id string) (domain.Report, error)
}

type defaultStore struct {
	substrate kv.Substrate
	key       string

	mu      sync.RWMutex
	reports []domain.Report
}

func NewStore(substrate kv.Substrate, key string) (Store, error) {
	if substrate == nil {
		return nil, fmt.Errorf("key-value substrate is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &defaultStore{substrate: substrate, key: key}, nil
}

func (s *defaultStore) Load(ctx context.Context) ([]domain.Report, error) {
	logger := zerolog.Ctx(ctx)

	raw, err := s.substrate.Get(ctx, s.key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		s.replace(nil)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	loaded, decodeErr := Decode(raw)
	if decodeErr == nil {
		s.replace(loaded)
		logger.Debug().Int("reports", len(loaded)).Str("key", s.key).Msg("loaded report collection")
		return s.All(), nil
	}

	s.replace(nil)
	corruption := &domain.StoreCorruptionError{Key: s.key, Err: decodeErr}
	backup := s.key + corruptSuffix
	if err := s.substrate.Put(ctx, backup, raw); err != nil {
		logger.Error().Err(err).Str("key", backup).Msg("failed to keep corrupted report collection")
	} else {
		corruption.Backup = backup
	}
	return nil, corruption
}

func (s *defaultStore) Append(ctx context.Context, report domain.Report) error {
	if report.ID == "" {
		return domain.NewValidationError("id", "report id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reports {
		if existing.ID == report.ID {
			return domain.NewValidationError("id", fmt.Sprintf("report %s already exists", report.ID))
		}
	}

	next := append(slices.Clip(s.reports), report)
	raw, err := Encode(next)
	if err != nil {
		return fmt.Errorf("failed to encode reports: %w", err)
	}
	if err := s.substrate.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save reports: %w", err)
	}

	s.reports = next
	zerolog.Ctx(ctx).Info().
		Str("id", report.ID).
		Str("period", report.Period).
		Int("reports", len(next)).
		Msg("report appended")
	return nil
}

func (s *defaultStore) All() []domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.reports)
}

func (s *defaultStore) Get(id string) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Report{}, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
}

func (s *defaultStore) replace(reports []domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = reports
}

// Encode serializes a collection in its persisted form.
func Encode(reports []domain.Report) ([]byte, error) {
	records := make([]store.Report, 0, len(reports))
	for _, r := range reports {
		records = append(records, adapters.MapDomainReportToStore(r))
	}
	return json.Marshal(records)
}

// Decode parses a persisted collection.
func Decode(raw []byte) ([]domain.Report, error) {
	var records []store.Report
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(records))
	for _, record := range records {
		r, err := adapters.MapStoreReportToDomain(record)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
