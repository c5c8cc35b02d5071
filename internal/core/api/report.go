package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/core/store"
	"github.com/formward/formward/internal/scoring"
	"github.com/formward/formward/internal/types"
)

// industryBenchmarks holds per-industry overall benchmarks for the
// comparison report. Unlisted industries fall back to the default.
var industryBenchmarks = map[string]float64{
	"technology":    62,
	"finance":       58,
	"healthcare":    46,
	"retail":        44,
	"manufacturing": 41,
	"services":      48,
}

const defaultBenchmark = 50

// getReport renders the scoring comparison for one submission.
func (h *HttpEndpoints) getReport(c *gin.Context) {
	formKey := c.Param("formKey")
	ctx := c.Request.Context()

	submissionID, err := types.ParseSubmissionID(c.Param("submissionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	form, err := h.publishedForm(ctx, formKey)
	if err != nil {
		if errors.Is(err, types.ErrFormNotFound) || errors.Is(err, types.ErrNotPublished) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		slog.Error("error loading published form", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading form"})
		return
	}

	row, err := h.submissions.GetSubmission(ctx, form.FormID, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
			return
		}
		slog.Error("error loading submission", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading submission"})
		return
	}

	score, categories := deriveScores(row)
	benchmark := defaultBenchmark * 1.0
	if b, ok := industryBenchmarks[row.Industry.String]; ok {
		benchmark = b
	}

	report := scoring.Compare(score, benchmark, categories)
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// deriveScores aggregates the submission into category scores. Pure
// counting over the answer collections; the presentation math lives in
// internal/scoring.
func deriveScores(row *store.SubmissionRow) (float64, []scoring.CategoryScore) {
	tools := decodeCount(row.CurrentTools)
	interests := decodeCount(row.AutomationInterest)
	challenges := decodeCount(row.CurrentChallenges)

	categories := []scoring.CategoryScore{
		{
			Category:  "tooling",
			Score:     capAt100(float64(tools) * 20),
			Benchmark: 55,
		},
		{
			Category:  "automation_interest",
			Score:     capAt100(float64(interests) * 25),
			Benchmark: 50,
		},
		{
			Category:  "process_maturity",
			Score:     capAt100(100 - float64(challenges)*15),
			Benchmark: 45,
		},
	}

	var total float64
	for _, cat := range categories {
		total += cat.Score
	}
	return total / float64(len(categories)), categories
}

func decodeCount(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}

func capAt100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
