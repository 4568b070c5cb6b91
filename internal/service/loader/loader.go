package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/domain/dto"
	"github.com/ougirez/injuries/internal/pkg/constants"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"github.com/ougirez/injuries/internal/pkg/tabular"
	"github.com/ougirez/injuries/internal/service/validation"
)

// Source supplies the decoded rows of one year's file.
type Source interface {
	Name() string
	Read(ctx context.Context) (*tabular.Table, error)
}

// SourceError is a failure to load a whole year. Other years are unaffected.
type SourceError struct {
	Year   domain.Year
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("year %d, source %s: %s", e.Year, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Report counts what happened to the rows of one load.
type Report struct {
	Year       domain.Year    `json:"year"`
	Source     string         `json:"source"`
	RowsRead   int            `json:"rows_read"`
	Duplicates int            `json:"duplicates"`
	Rejected   map[string]int `json:"rejected"`
	Kept       int            `json:"kept"`
}

func (r *Report) RejectedTotal() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

var rejectionReasons = []error{
	constants.ErrMissingField,
	constants.ErrInjuryCountExceedsEmployees,
	constants.ErrImplausibleHoursWorked,
	constants.ErrInconsistentSubcategories,
	constants.ErrNonPositiveHours,
}

type Loader struct {
	required []string
	tracked  []string
}

func NewLoader() *Loader {
	tracked := make([]string, 0, len(domain.Columns))
	for _, c := range domain.Columns {
		tracked = append(tracked, c.Name)
	}
	return &Loader{required: domain.RequiredColumns(), tracked: tracked}
}

// LoadYear reads one source, drops exact duplicate rows and inadmissible records,
// and tags the survivors with year. Source order is preserved.
func (l *Loader) LoadYear(ctx context.Context, src Source, year domain.Year) ([]*domain.EstablishmentYearRecord, *Report, error) {
	ctx = logger.WithFields(ctx, "year", year, "source", src.Name())

	table, err := src.Read(ctx)
	if err != nil {
		return nil, nil, &SourceError{Year: year, Source: src.Name(), Err: fmt.Errorf("%w: %w", constants.ErrSourceUnavailable, err)}
	}
	if len(table.Header) == 0 {
		return nil, nil, &SourceError{Year: year, Source: src.Name(), Err: fmt.Errorf("%w: empty source", constants.ErrSourceUnavailable)}
	}
	if missing := table.Missing(l.required); len(missing) > 0 {
		return nil, nil, &SourceError{
			Year:   year,
			Source: src.Name(),
			Err:    fmt.Errorf("%w: missing columns %s", constants.ErrSourceSchemaMismatch, strings.Join(missing, ", ")),
		}
	}
	if len(table.Rows) == 0 {
		return nil, nil, &SourceError{Year: year, Source: src.Name(), Err: fmt.Errorf("%w: no rows", constants.ErrSourceUnavailable)}
	}

	report := &Report{Year: year, Source: src.Name(), RowsRead: len(table.Rows), Rejected: make(map[string]int)}
	index := table.Index()
	seen := make(map[string]struct{}, len(table.Rows))
	records := make([]*domain.EstablishmentYearRecord, 0, len(table.Rows))

	for _, row := range table.Rows {
		key := l.rowKey(index, row)
		if _, ok := seen[key]; ok {
			report.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		record, err := validation.Validate(dto.NewRawRecord(index, row))
		if err != nil {
			report.Rejected[reasonName(err)]++
			logger.Debugf(ctx, "row rejected: %s", err.Error())
			continue
		}

		record.Year = year
		records = append(records, record)
	}
	report.Kept = len(records)

	logger.Info(ctx, "year loaded",
		"rows", report.RowsRead,
		"duplicates", report.Duplicates,
		"rejected", report.RejectedTotal(),
		"kept", report.Kept,
	)

	return records, report, nil
}

// rowKey joins the raw cells of every tracked column; absent columns count as empty.
func (l *Loader) rowKey(index map[string]int, row []string) string {
	var b strings.Builder
	for _, name := range l.tracked {
		if i, ok := index[name]; ok && i < len(row) {
			b.WriteString(row[i])
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

// reasonName picks the first matching rejection, in rule order.
func reasonName(err error) string {
	for _, reason := range rejectionReasons {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return "other"
}
