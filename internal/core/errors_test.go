// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			want: ErrDuplicateKey,
		},
		{
			name: "foreign key violation",
			err: fmt.Errorf("wrapped: %w", &pgconn.PgError{
				Code:           "23503",
				ConstraintName: "projects_owner_id_fkey",
			}),
			want: ErrInvalidReference,
		},
		{
			name: "string too long",
			err: &pgconn.PgError{
				Code:    "22001",
				Message: "value too long for type character varying(50)",
			},
			want: ErrValueTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPgError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClassifyPgErrorPassesThroughOtherErrors(t *testing.T) {
	other := errors.New("connection refused")
	if got := ClassifyPgError(other); got != other {
		t.Fatalf("expected error to be returned unchanged, got %v", got)
	}

	check := &pgconn.PgError{Code: "23514"}
	if got := ClassifyPgError(check); got != error(check) {
		t.Fatalf("expected unclassified pg error unchanged, got %v", got)
	}
}

func TestJSONErrorFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"INTERNAL_ERROR"`) || strings.Contains(body, "boom") {
		t.Fatalf("unexpected body %s", body)
	}
}
