// AngelaMos | 2026
// helpers_test.go

package project

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var (
	projectRowColumns = []string{
		"id", "name", "description", "status", "owner_id", "created_at", "updated_at",
	}
	joinedRowColumns = append(append([]string{}, projectRowColumns...), "owner_name")
)

var (
	created = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	later   = created.Add(90 * time.Minute)
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "pgx"), mock
}

func newTestService(t *testing.T, now time.Time) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := setupMockDB(t)
	svc := NewService(NewRepository(db))
	svc.now = func() time.Time { return now }

	return svc, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func strPtr(s string) *string {
	return &s
}
