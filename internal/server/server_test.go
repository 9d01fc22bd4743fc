package server

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/carvy/internal/shared"
	tu "github.com/desertthunder/carvy/internal/testing"
)

type car struct {
	ID    int64  `json:"id"`
	Brand string `json:"brand"`
}

func newTestRouter(buf *bytes.Buffer) *BasicRouter {
	logger := shared.NewLogger(buf)
	cars := []car{{1, "Dacia"}, {2, "Ford"}}

	router := NewBasicRouter()
	router.Use(Recoverer(logger), RequestLogger(logger))
	router.Handler(HealthHandler{Backend: "database"})
	router.Handler(NewListingHandler(logger,
		Collection{
			Name: "cars",
			List: func() (any, error) { return cars, nil },
			Find: func(id int64) (any, error) {
				for _, c := range cars {
					if c.ID == id {
						return c, nil
					}
				}
				return nil, fmt.Errorf("%w: car %d", shared.ErrNotFound, id)
			},
		},
		Collection{Name: "clients", List: func() (any, error) { return nil, tu.ErrStoreOffline }},
	))
	router.Handle("get", "/panic", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	return router
}

func TestListingHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		body   string
	}{
		{"collections", http.MethodGet, "/api", http.StatusOK, `{"collections":["cars","clients"]}`},
		{"list", http.MethodGet, "/api/cars", http.StatusOK, `[{"id":1,"brand":"Dacia"},{"id":2,"brand":"Ford"}]`},
		{"find", http.MethodGet, "/api/cars/2", http.StatusOK, `{"id":2,"brand":"Ford"}`},
		{"missing entity", http.MethodGet, "/api/cars/9", http.StatusNotFound, `entity not found: car 9`},
		{"bad id", http.MethodGet, "/api/cars/abc", http.StatusBadRequest, `positive integer`},
		{"no finder", http.MethodGet, "/api/clients/1", http.StatusNotFound, `cannot be looked up`},
		{"unknown kind", http.MethodGet, "/api/boats", http.StatusNotFound, `unknown collection \"boats\"`},
		{"store failure", http.MethodGet, "/api/clients", http.StatusInternalServerError, `store offline`},
		{"health", http.MethodGet, "/health", http.StatusOK, `"backend":"database"`},
		{"method not allowed", http.MethodPost, "/api/cars", http.StatusMethodNotAllowed, ""},
		{"panic", http.MethodGet, "/panic", http.StatusInternalServerError, `internal error`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			router := newTestRouter(&logs)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("expected body to contain %s, got %s", tt.body, rec.Body.String())
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestLogger", func(t *testing.T) {
		var logs bytes.Buffer
		router := newTestRouter(&logs)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boats", nil))

		out := logs.String()
		if !strings.Contains(out, "path=/api/boats") || !strings.Contains(out, "status=404") {
			t.Errorf("request not logged: %s", out)
		}
	})

	t.Run("Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("outer"), mark("inner"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if got := strings.Join(order, ","); got != "outer,inner,handler" {
			t.Errorf("unexpected middleware order %s", got)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, func() {})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for unencodable value, got %d", rec.Code)
	}
}
