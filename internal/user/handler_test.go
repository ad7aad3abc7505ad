// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("json.Marshal: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestCreateUserEndpoint(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("a", "a@b.com", "A B", created, created).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "a", "a@b.com", "A B", created, created))

	resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "a@b.com",
		"name":     "A B",
		"password": "longenough",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out["role"] != "user" || out["is_active"] != true || out["username"] != "a" {
		t.Fatalf("unexpected body %v", out)
	}
	if _, leaked := out["password"]; leaked {
		t.Fatalf("password must never be returned")
	}

	expectationsMet(t, mock)
}

func TestCreateUserEndpointRejectsInvalidInput(t *testing.T) {
	cases := map[string]map[string]string{
		"bad email":      {"email": "nope", "name": "A", "password": "longenough"},
		"short password": {"email": "a@b.com", "name": "A", "password": "short"},
		"missing name":   {"email": "a@b.com", "password": "longenough"},
		"bad role":       {"email": "a@b.com", "name": "A", "password": "longenough", "role": "root"},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc, mock := newTestService(t, created)

			resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestCreateUserEndpointDuplicate(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(pgUniqueViolation())

	resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "a@b.com",
		"name":     "A B",
		"password": "longenough",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestGetUserEndpointNotFound(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	resp := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/v1/users/999", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestGetUserEndpointInvalidID(t *testing.T) {
	svc, mock := newTestService(t, created)

	resp := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/v1/users/abc", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestListUsersEndpointEmpty(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	resp := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/v1/users", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := bytes.TrimSpace(resp.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", got)
	}

	expectationsMet(t, mock)
}

func TestUpdateUserEndpointEmptyBody(t *testing.T) {
	svc, mock := newTestService(t, later)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(1, "a", "a@b.com", "A B", created, created))

	resp := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/v1/users/1", map[string]string{})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestDeleteUserEndpoint(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	router := newTestRouter(svc)

	if resp := doRequest(t, router, http.MethodDelete, "/api/v1/users/5", nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if resp := doRequest(t, router, http.MethodDelete, "/api/v1/users/6", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestCreateUserEndpointRejectsLongDerivedUsername(t *testing.T) {
	svc, mock := newTestService(t, created)

	resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", map[string]string{
		"email":    strings.Repeat("a", 60) + "@b.com",
		"name":     "A",
		"password": "longenough",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "email local part must be at most 50 characters") {
		t.Fatalf("unexpected message %s", resp.Body.String())
	}

	expectationsMet(t, mock)
}

func TestCreateUserEndpointLongEmailWithUsername(t *testing.T) {
	svc, mock := newTestService(t, created)
	email := strings.Repeat("a", 60) + "@b.com"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("shorty", email, "A", created, created).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(4, "shorty", email, "A", created, created))

	resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", map[string]string{
		"email":    email,
		"name":     "A",
		"password": "longenough",
		"username": "shorty",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	expectationsMet(t, mock)
}

func TestCreateUserEndpointValueTooLong(t *testing.T) {
	svc, mock := newTestService(t, created)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{
			Code:    "22001",
			Message: "value too long for type character varying(50)",
		})

	resp := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/users", map[string]string{
		"email":    "a@b.com",
		"name":     "A",
		"password": "longenough",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}

func TestUpdateUserEndpointRejectsInvalidInput(t *testing.T) {
	cases := map[string]map[string]string{
		"bad email":     {"email": "nope"},
		"empty name":    {"name": ""},
		"name too long": {"name": strings.Repeat("n", 101)},
		"bad role":      {"role": "root"},
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc, mock := newTestService(t, later)

			resp := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/v1/users/1", body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestUpdateUserEndpointEmailTaken(t *testing.T) {
	svc, mock := newTestService(t, later)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET email = $1`)).
		WillReturnError(pgUniqueViolation())

	resp := doRequest(t, newTestRouter(svc), http.MethodPut, "/api/v1/users/2", map[string]string{
		"email": "taken@b.com",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	expectationsMet(t, mock)
}
