package research

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// FileSource lee estimaciones de probabilidad desde un archivo JSON
// producido por el pipeline de research externo. El archivo es un
// array de objetos:
//
//	[{"ticker": "...", "prob_yes": 0.70, "source_count": 3,
//	  "note": "tesis opcional", "updated_at": "2026-08-30T12:00:00Z"}, ...]
type FileSource struct {
	path string
}

// NewFileSource crea un FileSource sobre el path dado.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type estimateRecord struct {
	Ticker      string  `json:"ticker"`
	ProbYes     float64 `json:"prob_yes"`
	SourceCount int     `json:"source_count"`
	Note        string  `json:"note"`
	UpdatedAt   string  `json:"updated_at"`
}

// FetchEstimates implementa ports.EstimateProvider. Si hay tickers
// duplicados gana el último. Un archivo ausente no es error: significa
// que el research todavía no corrió y se devuelve el map vacío.
func (f *FileSource) FetchEstimates(_ context.Context) (map[string]domain.Estimate, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.Estimate{}, nil
		}
		return nil, fmt.Errorf("research.FetchEstimates: read %q: %w", f.path, err)
	}

	var records []estimateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("research.FetchEstimates: parse %q: %w", f.path, err)
	}

	out := make(map[string]domain.Estimate, len(records))
	for _, r := range records {
		if r.Ticker == "" {
			continue
		}
		est := domain.Estimate{
			Ticker:      r.Ticker,
			ProbYes:     r.ProbYes,
			SourceCount: r.SourceCount,
			Note:        r.Note,
		}
		if t, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
			est.UpdatedAt = t.UTC()
		}
		out[r.Ticker] = est
	}
	return out, nil
}
