package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/formward/formward/internal/types"
)

type fakeStore struct {
	calls int
	err   error
	rec   *types.SubmissionRecord
	raw   []byte
}

func (f *fakeStore) InsertSubmission(ctx context.Context, formID types.FormID, id types.SubmissionID, rec *types.SubmissionRecord, rawAnswers []byte) error {
	f.calls++
	f.rec = rec
	f.raw = rawAnswers
	return f.err
}

type fakeCache struct {
	invalidated int
	err         error
}

func (f *fakeCache) InvalidateAssessments(ctx context.Context, formID types.FormID) error {
	f.invalidated++
	return f.err
}

type fakeNotifier struct {
	notified int
}

func (f *fakeNotifier) SubmissionReceived(ctx context.Context, formID types.FormID, rec *types.SubmissionRecord) error {
	f.notified++
	return nil
}

func completeAnswers() types.AnswerMap {
	return types.AnswerMap{
		"full_name":           "Dana Smith",
		"email":               "dana@example.com",
		"phone":               "+1 555 123456",
		"company":             "Acme Retail",
		"company_size":        "11-50",
		"industry":            "retail",
		"current_challenges":  []string{"manual reporting", "lead tracking"},
		"automation_interest": []string{"billing"},
		"current_tools":       []any{"sheets", "crm"},
		"budget_range":        "5k-10k",
		"timeline":            "this quarter",
		"goals":               "cut admin time in half",
		"additional_info":     "",
	}
}

func TestBuildRecord(t *testing.T) {
	rec, err := BuildRecord(completeAnswers())
	if err != nil {
		t.Fatalf("BuildRecord() error = %v", err)
	}
	if rec.ContactName != "Dana Smith" || rec.CompanyName != "Acme Retail" {
		t.Errorf("identity mapping wrong: %+v", rec)
	}
	if len(rec.CurrentChallenges) != 2 {
		t.Errorf("CurrentChallenges = %v", rec.CurrentChallenges)
	}
	if len(rec.CurrentTools) != 2 {
		t.Errorf("CurrentTools ([]any answers) = %v", rec.CurrentTools)
	}
}

func TestBuildRecord_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(types.AnswerMap)
		wantErr error
	}{
		{
			name:    "missing full name",
			mutate:  func(a types.AnswerMap) { delete(a, "full_name") },
			wantErr: types.ErrMissingRequiredField,
		},
		{
			name:    "whitespace company",
			mutate:  func(a types.AnswerMap) { a["company"] = "   " },
			wantErr: types.ErrMissingRequiredField,
		},
		{
			name:    "malformed email",
			mutate:  func(a types.AnswerMap) { a["email"] = "dana@" },
			wantErr: types.ErrInvalidEmail,
		},
		{
			name:    "malformed phone",
			mutate:  func(a types.AnswerMap) { a["phone"] = "call me" },
			wantErr: types.ErrInvalidPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := completeAnswers()
			tt.mutate(answers)
			_, err := BuildRecord(answers)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildRecord_PhoneOptional(t *testing.T) {
	answers := completeAnswers()
	delete(answers, "phone")
	if _, err := BuildRecord(answers); err != nil {
		t.Errorf("BuildRecord() without phone = %v, want nil", err)
	}
}

func TestHandler_Submit(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{}
	notifier := &fakeNotifier{}
	h := NewHandler("form-1", store, cache, notifier)

	if err := h.Submit(context.Background(), completeAnswers()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1", store.calls)
	}
	if len(store.raw) == 0 {
		t.Error("raw answers not recorded")
	}
	if cache.invalidated != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidated)
	}
	if notifier.notified != 1 {
		t.Errorf("notifications = %d, want 1", notifier.notified)
	}
}

func TestHandler_ValidationShortCircuitsStore(t *testing.T) {
	store := &fakeStore{}
	h := NewHandler("form-1", store, nil, nil)

	answers := completeAnswers()
	answers["email"] = "broken"
	if err := h.Submit(context.Background(), answers); !errors.Is(err, types.ErrInvalidEmail) {
		t.Fatalf("Submit() error = %v, want ErrInvalidEmail", err)
	}
	if store.calls != 0 {
		t.Errorf("store called %d times for invalid input, want 0", store.calls)
	}
}

func TestHandler_PersistenceFailureWrapped(t *testing.T) {
	store := &fakeStore{err: errors.New("pq: connection refused")}
	cache := &fakeCache{}
	h := NewHandler("form-1", store, cache, nil)

	err := h.Submit(context.Background(), completeAnswers())
	if !errors.Is(err, types.ErrPersistenceFailure) {
		t.Fatalf("Submit() error = %v, want ErrPersistenceFailure", err)
	}
	if cache.invalidated != 0 {
		t.Error("cache invalidated despite failed persist")
	}
}

// Duplicate key from the store is the already-exists success-equivalent.
func TestHandler_DuplicateIsSuccess(t *testing.T) {
	store := &fakeStore{err: types.ErrDuplicateSubmission}
	cache := &fakeCache{}
	h := NewHandler("form-1", store, cache, nil)

	if err := h.Submit(context.Background(), completeAnswers()); err != nil {
		t.Fatalf("Submit() with duplicate = %v, want nil", err)
	}
	if cache.invalidated != 0 {
		t.Error("cache invalidated for duplicate, want untouched")
	}
}

// Cache failure after a persisted submission must not surface as an error.
func TestHandler_CacheFailureIsBestEffort(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{err: errors.New("redis: connection pool timeout")}
	h := NewHandler("form-1", store, cache, nil)

	if err := h.Submit(context.Background(), completeAnswers()); err != nil {
		t.Fatalf("Submit() with failing cache = %v, want nil", err)
	}
}
