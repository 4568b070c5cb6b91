package loader

import (
	"context"
	"sync"

	"github.com/ougirez/injuries/internal/domain"
)

type cached struct {
	records []*domain.EstablishmentYearRecord
	report  *Report
}

// Cache memoizes successful loads by year. It is owned by the caller; nothing
// in this package keeps a process-wide instance.
type Cache struct {
	loader *Loader
	mx     sync.Mutex
	years  map[domain.Year]cached
}

func NewCache(loader *Loader) *Cache {
	return &Cache{loader: loader, years: make(map[domain.Year]cached)}
}

// Load returns the cached result for year or loads it from src. Failures are not cached.
func (c *Cache) Load(ctx context.Context, src Source, year domain.Year) ([]*domain.EstablishmentYearRecord, *Report, error) {
	c.mx.Lock()
	hit, ok := c.years[year]
	c.mx.Unlock()
	if ok {
		return hit.records, hit.report, nil
	}

	records, report, err := c.loader.LoadYear(ctx, src, year)
	if err != nil {
		return nil, nil, err
	}

	c.mx.Lock()
	c.years[year] = cached{records: records, report: report}
	c.mx.Unlock()

	return records, report, nil
}

func (c *Cache) Invalidate(year domain.Year) {
	c.mx.Lock()
	defer c.mx.Unlock()
	delete(c.years, year)
}

func (c *Cache) InvalidateAll() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.years = make(map[domain.Year]cached)
}
