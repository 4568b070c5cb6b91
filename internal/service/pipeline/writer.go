package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ougirez/injuries/internal/domain"
	"github.com/ougirez/injuries/internal/pkg/logger"
	"github.com/ougirez/injuries/internal/pkg/tabular"
	"github.com/ougirez/injuries/internal/service/aggregation"
	"github.com/ougirez/injuries/internal/service/profiles"
)

const (
	FileUnified         = "ita-data-all.csv"
	FileAggregated      = "aggregated_injury_data.json"
	FileFiltered        = "filtered_aggregated_data.json"
	FileReformatted     = "reformatted_aggregated_data.json"
	FileProfiles        = "establishment_profiles.csv"
	FileStateMetrics    = "state_year_metrics.csv"
	FileStatePivot      = "state_year_pivot.csv"
	FileIndustryMetrics = "industry_year_metrics.csv"
	FileReports         = "load_reports.json"
)

// CleanedFile is the name of the cleaned output of one source year.
func CleanedFile(year domain.Year) string {
	return fmt.Sprintf("ITA Data CY %d_cleaned.csv", year)
}

// RecordsTable renders records in the fixed column order.
func RecordsTable(records []*domain.EstablishmentYearRecord) *tabular.Table {
	header := make([]string, 0, len(domain.Columns))
	for _, c := range domain.Columns {
		header = append(header, c.Name)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values())
	}
	return &tabular.Table{Header: header, Rows: rows}
}

// WriteCleaned writes one cleaned CSV per loaded year and the load reports.
func WriteCleaned(ctx context.Context, dir string, p *Products) error {
	for _, year := range p.Loaded() {
		path := filepath.Join(dir, CleanedFile(year))
		if err := tabular.WriteCSV(path, RecordsTable(p.Cleaned[year])); err != nil {
			return fmt.Errorf("tabular.WriteCSV, year-%d: %w", year, err)
		}
	}

	if err := tabular.WriteJSON(filepath.Join(dir, FileReports), p.Reports); err != nil {
		return fmt.Errorf("tabular.WriteJSON: %w", err)
	}

	logger.Infof(ctx, "wrote %d cleaned files to %s", len(p.Cleaned), dir)
	return nil
}

// WriteProducts writes the cleaned files and every merged and aggregated product.
func WriteProducts(ctx context.Context, dir string, p *Products, industryMinEmployees int64) error {
	if err := WriteCleaned(ctx, dir, p); err != nil {
		return err
	}

	reformatted := make(map[string]map[string][]interface{}, len(p.Filtered))
	for id, profile := range p.Filtered {
		reformatted[id] = profiles.Columnar(profile)
	}

	csvs := []struct {
		name  string
		table *tabular.Table
	}{
		{FileUnified, RecordsTable(p.Unified)},
		{FileProfiles, profiles.WideTable(p.Filtered, p.Years)},
		{FileStateMetrics, aggregation.LongTable(p.StateMetrics, domain.ColState)},
		{FileStatePivot, aggregation.PivotTable(aggregation.Pivot(p.StateMetrics, p.Years), p.Years, domain.ColState)},
		{FileIndustryMetrics, aggregation.LongTable(
			aggregation.FilterMinEmployees(p.IndustryMetrics, industryMinEmployees), domain.ColNAICSCode)},
	}
	for _, f := range csvs {
		if err := tabular.WriteCSV(filepath.Join(dir, f.name), f.table); err != nil {
			return fmt.Errorf("tabular.WriteCSV, %s: %w", f.name, err)
		}
	}

	jsons := []struct {
		name  string
		value interface{}
	}{
		{FileAggregated, profiles.ByYear(p.Profiles)},
		{FileFiltered, profiles.ByYear(p.Filtered)},
		{FileReformatted, reformatted},
	}
	for _, f := range jsons {
		if err := tabular.WriteJSON(filepath.Join(dir, f.name), f.value); err != nil {
			return fmt.Errorf("tabular.WriteJSON, %s: %w", f.name, err)
		}
	}

	logger.Info(ctx, "products written", "dir", dir, "run_id", p.RunID)
	return nil
}
