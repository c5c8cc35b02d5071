// Package scoring builds the assessment results comparison.
//
// Scores arrive precomputed; this package only derives the presentation
// values (delta vs benchmark, readiness band, per-category comparison) as
// an immutable report.
package scoring

import "math"

// Band classifies an overall score for presentation.
type Band string

const (
	BandEmerging    Band = "emerging"
	BandDeveloping  Band = "developing"
	BandEstablished Band = "established"
	BandLeading     Band = "leading"
)

// CategoryScore is one scored dimension of the assessment.
type CategoryScore struct {
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	Benchmark float64 `json:"benchmark"`
}

// CategoryComparison is the derived per-category view.
type CategoryComparison struct {
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	Benchmark float64 `json:"benchmark"`
	Delta     float64 `json:"delta"`
	Ahead     bool    `json:"ahead"`
}

// Report is the rendered comparison of a score against its industry
// benchmark. Created once, never mutated.
type Report struct {
	Score      float64              `json:"score"`
	Benchmark  float64              `json:"benchmark"`
	Delta      float64              `json:"delta"`
	Band       Band                 `json:"band"`
	Categories []CategoryComparison `json:"categories"`
}

// Compare derives the presentation report. Scores are clamped to [0, 100]
// so a bad upstream value cannot produce a nonsensical chart.
func Compare(score, benchmark float64, categories []CategoryScore) Report {
	score = clamp(score)
	benchmark = clamp(benchmark)

	r := Report{
		Score:     score,
		Benchmark: benchmark,
		Delta:     round1(score - benchmark),
		Band:      bandFor(score),
	}
	for _, c := range categories {
		cs := clamp(c.Score)
		cb := clamp(c.Benchmark)
		r.Categories = append(r.Categories, CategoryComparison{
			Category:  c.Category,
			Score:     cs,
			Benchmark: cb,
			Delta:     round1(cs - cb),
			Ahead:     cs >= cb,
		})
	}
	return r
}

func bandFor(score float64) Band {
	switch {
	case score < 25:
		return BandEmerging
	case score < 50:
		return BandDeveloping
	case score < 75:
		return BandEstablished
	default:
		return BandLeading
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
