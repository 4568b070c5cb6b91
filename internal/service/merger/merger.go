package merger

import (
	"sort"

	"github.com/ougirez/injuries/internal/domain"
)

// YearLess orders source years; the first year in that order wins a conflict.
type YearLess func(a, b domain.Year) bool

// NewestFirst is the default order: OSHA re-issues history, the newest file is authoritative.
func NewestFirst(a, b domain.Year) bool {
	return a > b
}

type options struct {
	less YearLess
}

type Option func(*options)

func WithYearOrder(less YearLess) Option {
	return func(o *options) {
		o.less = less
	}
}

// Merge combines per-year record sets. Exact duplicates are removed first; then,
// of records identical except for their source year, the one from the year
// ordered first is kept. The result follows that year order, each year keeping
// its source order.
func Merge(perYear map[domain.Year][]*domain.EstablishmentYearRecord, opts ...Option) []*domain.EstablishmentYearRecord {
	o := options{less: NewestFirst}
	for _, opt := range opts {
		opt(&o)
	}

	years := make([]domain.Year, 0, len(perYear))
	total := 0
	for y, records := range perYear {
		years = append(years, y)
		total += len(records)
	}
	sort.Ints(years)
	sort.SliceStable(years, func(i, j int) bool { return o.less(years[i], years[j]) })

	combined := make([]*domain.EstablishmentYearRecord, 0, total)
	for _, y := range years {
		combined = append(combined, perYear[y]...)
	}

	return dedupe(dedupe(combined, (*domain.EstablishmentYearRecord).Key), (*domain.EstablishmentYearRecord).ContentKey)
}

func dedupe(records []*domain.EstablishmentYearRecord, key func(*domain.EstablishmentYearRecord) string) []*domain.EstablishmentYearRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]*domain.EstablishmentYearRecord, 0, len(records))
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
