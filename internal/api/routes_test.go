package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AmiralBl3ndic/Vinaigrette/internal/api"
	"github.com/AmiralBl3ndic/Vinaigrette/internal/sauce"
)

func newTestRouter(postsPerHour int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.Register(r, sauce.NewMemoryStore(3), postsPerHour)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestDescribeEndpoint(t *testing.T) {
	r := newTestRouter(60)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sauce", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 describe response, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "POST /sauce/quote") {
		t.Fatalf("describe should document the endpoints, got %s", w.Body.String())
	}
}

func TestCreateQuoteSauce(t *testing.T) {
	r := newTestRouter(60)

	w := post(r, "/sauce/quote", `{"quote":"I have a dream","answer":"MLK"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Sauce created") {
		t.Fatalf("expected creation message, got %s", w.Body.String())
	}

	w = post(r, "/sauce/quote", `{"quote":"","answer":"MLK"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing quote, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "quote") {
		t.Fatalf("error should name the missing field, got %s", w.Body.String())
	}

	w = post(r, "/sauce/quote", `{"quote":"hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing answer, got %d", w.Code)
	}
}

func TestCreateImageSauce(t *testing.T) {
	r := newTestRouter(60)

	w := post(r, "/sauce/image", `{"imageUrl":"https://example.com/s.jpg","answer":"Paris"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = post(r, "/sauce/image", `{"answer":"Paris"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing imageUrl, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(2)

	for i := 0; i < 2; i++ {
		w := post(r, "/sauce/quote", `{"quote":"q","answer":"a"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("request %d should pass the limiter, got %d", i+1, w.Code)
		}
	}
	w := post(r, "/sauce/quote", `{"quote":"q","answer":"a"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the hourly budget is spent, got %d", w.Code)
	}
}
