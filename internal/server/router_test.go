package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubHandler struct {
	routes []string
	body   string
}

func (s stubHandler) Routes() []string { return s.routes }

func (s stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(s.body))
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle with method", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("hi"))
		}))
		r.Handle(http.MethodPost, "/hello", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
		if w.Code != http.StatusOK || w.Body.String() != "hi" {
			t.Errorf("GET got %d %q", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hello", nil))
		if w.Code != http.StatusCreated {
			t.Errorf("POST got %d", w.Code)
		}

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/hello", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("DELETE got %d, want 405", w.Code)
		}
	})

	t.Run("Handler registers all routes", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handler(stubHandler{routes: []string{"GET /a", "GET /b/{rest...}"}, body: "stub"})

		for _, path := range []string{"/a", "/b/c/d"} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			if w.Body.String() != "stub" {
				t.Errorf("%s: got %q", path, w.Body.String())
			}
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Use(mark("third"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got := strings.Join(order, ","); got != "first,second,third,handler" {
			t.Errorf("order = %s", got)
		}
	})
}
