package store

import (
	"context"
	"sort"
	"sync"

	"github.com/ougirez/injuries/internal/domain"
)

// Snapshot is the full set of products of one pipeline run.
type Snapshot struct {
	RunID string
	Years []domain.Year

	Cleaned         map[domain.Year][]*domain.EstablishmentYearRecord
	Unified         []*domain.EstablishmentYearRecord
	Profiles        map[string]*domain.EstablishmentProfile
	Filtered        map[string]*domain.EstablishmentProfile
	StateMetrics    []*domain.KeyYearMetric
	IndustryMetrics []*domain.KeyYearMetric
}

type Store interface {
	Put(ctx context.Context, snapshot *Snapshot) error
	Years(ctx context.Context) ([]domain.Year, error)
	ListYearRecords(ctx context.Context, year domain.Year) ([]*domain.EstablishmentYearRecord, error)
	ListUnified(ctx context.Context) ([]*domain.EstablishmentYearRecord, error)
	ListProfiles(ctx context.Context, opts ListProfilesOpts) (map[string]*domain.EstablishmentProfile, error)
	GetProfile(ctx context.Context, establishmentID string) (*domain.EstablishmentProfile, error)
	ListStateMetrics(ctx context.Context) ([]*domain.KeyYearMetric, error)
	ListIndustryMetrics(ctx context.Context) ([]*domain.KeyYearMetric, error)
}

type ListProfilesOpts struct {
	// OnlyFiltered restricts the result to establishments that passed the sparsity filter.
	OnlyFiltered bool
}

// store keeps the latest snapshot in memory. Snapshots are replaced whole and never mutated.
type store struct {
	mx       sync.RWMutex
	snapshot *Snapshot
}

func NewStore() Store {
	return &store{}
}

func (s *store) Put(_ context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return errNoSnapshot
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	s.snapshot = snapshot
	return nil
}

func (s *store) current() (*Snapshot, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()
	if s.snapshot == nil {
		return nil, wrapErr(errNoSnapshot)
	}
	return s.snapshot, nil
}

func (s *store) Years(_ context.Context) ([]domain.Year, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	years := make([]domain.Year, 0, len(snap.Cleaned))
	for y := range snap.Cleaned {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func (s *store) ListYearRecords(_ context.Context, year domain.Year) ([]*domain.EstablishmentYearRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	records, ok := snap.Cleaned[year]
	if !ok {
		return nil, wrapErr(errUnknownYear)
	}
	return records, nil
}

func (s *store) ListUnified(_ context.Context) ([]*domain.EstablishmentYearRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.Unified, nil
}

func (s *store) ListProfiles(_ context.Context, opts ListProfilesOpts) (map[string]*domain.EstablishmentProfile, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if opts.OnlyFiltered {
		return snap.Filtered, nil
	}
	return snap.Profiles, nil
}

func (s *store) GetProfile(_ context.Context, establishmentID string) (*domain.EstablishmentProfile, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	p, ok := snap.Profiles[establishmentID]
	if !ok {
		return nil, wrapErr(errUnknownEstablishment)
	}
	return p, nil
}

func (s *store) ListStateMetrics(_ context.Context) ([]*domain.KeyYearMetric, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.StateMetrics, nil
}

func (s *store) ListIndustryMetrics(_ context.Context) ([]*domain.KeyYearMetric, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.IndustryMetrics, nil
}
