package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/studiox/forms-backend/internal/services"
)

// stubSubmission satisfies SubmissionService for page rendering tests.
type stubSubmission struct {
	unsubErr error
	gotEmail string
	gotToken string
}

func (s *stubSubmission) Process(_ context.Context, raw map[string]any, _ services.RequestMeta) (map[string]any, error) {
	return raw, nil
}

func (s *stubSubmission) Unsubscribe(_ context.Context, email, token, _ string) error {
	if email == "" || token == "" {
		return services.ErrMissingCredentials
	}
	s.gotEmail, s.gotToken = email, token
	return s.unsubErr
}

func unsubscribeRouter(stub *stubSubmission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUnsubscribeHandler(stub)
	r.GET("/api/unsubscribe", h.ConfirmPage)
	r.POST("/api/unsubscribe", h.Submit)
	return r
}

func TestConfirmPage_RendersFormWithEmail(t *testing.T) {
	r := unsubscribeRouter(&stubSubmission{})

	// The GET never verifies the token; even a bogus one renders the form.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/unsubscribe?email=jo%40example.com&token=BADTOKEN", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "jo@example.com") {
		t.Fatalf("page missing email:\n%s", body)
	}
	if !strings.Contains(body, `name="token" value="BADTOKEN"`) {
		t.Fatalf("page missing token field:\n%s", body)
	}
}

func TestConfirmPage_MissingParams(t *testing.T) {
	r := unsubscribeRouter(&stubSubmission{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unsubscribe?email=jo%40example.com", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid unsubscribe link") {
		t.Fatalf("error page not rendered:\n%s", w.Body.String())
	}
}

func TestConfirmPage_EscapesHTML(t *testing.T) {
	r := unsubscribeRouter(&stubSubmission{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/unsubscribe?email="+url.QueryEscape(`<script>x</script>@example.com`)+"&token=t", nil)
	r.ServeHTTP(w, req)

	if strings.Contains(w.Body.String(), "<script>x</script>") {
		t.Fatalf("email not escaped:\n%s", w.Body.String())
	}
}

func postUnsubscribe(r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/unsubscribe", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitUnsubscribe_Success(t *testing.T) {
	stub := &stubSubmission{}
	r := unsubscribeRouter(stub)

	w := postUnsubscribe(r, url.Values{
		"email":  {"jo@example.com"},
		"token":  {"tok"},
		"reason": {"too many emails"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unsubscribed") {
		t.Fatalf("success page not rendered:\n%s", w.Body.String())
	}
	if stub.gotEmail != "jo@example.com" || stub.gotToken != "tok" {
		t.Fatalf("service got %q/%q", stub.gotEmail, stub.gotToken)
	}
}

func TestSubmitUnsubscribe_MissingFields(t *testing.T) {
	r := unsubscribeRouter(&stubSubmission{})

	w := postUnsubscribe(r, url.Values{"email": {"jo@example.com"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid request") {
		t.Fatalf("error page not rendered:\n%s", w.Body.String())
	}
}

func TestSubmitUnsubscribe_DownstreamFailure(t *testing.T) {
	// Unlike the contact flow, a downstream failure is shown to the visitor.
	r := unsubscribeRouter(&stubSubmission{unsubErr: errors.New("relay: downstream status 500")})

	w := postUnsubscribe(r, url.Values{
		"email": {"jo@example.com"},
		"token": {"tok"},
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Something went wrong") {
		t.Fatalf("error page not rendered:\n%s", w.Body.String())
	}
}
