package domain

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// RatedRecord is a cleaned record with its injuries per employee.
type RatedRecord struct {
	*EstablishmentYearRecord
	InjuryRate *float64 `json:"injury_rate"`
}

// EstablishmentDetail is one profile with its per-field rate series.
type EstablishmentDetail struct {
	Summary *ProfileSummary            `json:"summary"`
	Years   []Year                     `json:"years"`
	Records []*EstablishmentYearRecord `json:"records"`
	Rates   map[string][]*float64      `json:"rates"`
}

// Correlation is the Pearson coefficient of two numeric columns over one year.
type Correlation struct {
	Year        Year     `json:"year"`
	X           string   `json:"x"`
	Y           string   `json:"y"`
	Log         bool     `json:"log"`
	Pairs       int      `json:"pairs"`
	Coefficient *float64 `json:"coefficient"`
}
