package notify

import (
	"strings"
	"testing"

	"github.com/formward/formward/internal/types"
)

func TestRenderBody(t *testing.T) {
	rec := &types.SubmissionRecord{
		ContactName:       "Dana Smith",
		ContactEmail:      "dana@example.com",
		CompanyName:       "Acme Retail",
		Industry:          "retail",
		CurrentChallenges: []string{"manual reporting", "lead tracking"},
		Goals:             "cut admin time in half",
	}

	body := renderBody(rec)
	for _, want := range []string{
		"Name: Dana Smith",
		"Email: dana@example.com",
		"Company: Acme Retail",
		"Challenges: manual reporting, lead tracking",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	// Empty fields are omitted entirely.
	if strings.Contains(body, "Phone:") {
		t.Errorf("body contains empty phone line:\n%s", body)
	}
	if strings.Contains(body, "Budget:") {
		t.Errorf("body contains empty budget line:\n%s", body)
	}
}
