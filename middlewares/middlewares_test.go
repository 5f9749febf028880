package middlewares

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civicreport-be/models"
	"civicreport-be/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type stubResolver struct {
	tokens map[string]*models.Identity
	err    error
}

func (s stubResolver) Resolve(_ context.Context, token string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if id, ok := s.tokens[token]; ok {
		return id, nil
	}
	return nil, &services.Error{Kind: services.KindUnauthenticated, Message: "Not authorized, token failed"}
}

func whoami(c *gin.Context) {
	identity := IdentityFrom(c)
	if identity == nil {
		c.JSON(http.StatusOK, gin.H{"user": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity.Username})
}

func newResolver() (stubResolver, *models.Identity) {
	alice := &models.Identity{ID: primitive.NewObjectID(), Username: "alice", Role: models.RoleUser}
	return stubResolver{tokens: map[string]*models.Identity{"good": alice}}, alice
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	resolver, _ := newResolver()
	r := gin.New()
	r.GET("/me", RequireAuth(resolver), whoami)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"bearer", "Bearer good", "", http.StatusOK},
		{"cookie", "", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookie, Value: tt.cookie})
			}
			w := do(r, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestOptionalAuth_InvalidTokenIsAnonymous(t *testing.T) {
	resolver, _ := newResolver()
	r := gin.New()
	r.GET("/x", OptionalAuth(resolver), whoami)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := do(r, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user":""`) {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = do(r, req)
	if !strings.Contains(w.Body.String(), `"user":"alice"`) {
		t.Fatalf("got %s", w.Body.String())
	}
}

func TestOptionalAuth_StoreFailureIs500(t *testing.T) {
	r := gin.New()
	r.GET("/x", OptionalAuth(stubResolver{err: &services.Error{Kind: services.KindPersistence, Message: "Server error"}}), whoami)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	if w := do(r, req); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestEngagementSession(t *testing.T) {
	resolver, alice := newResolver()
	r := gin.New()
	r.POST("/like", OptionalAuth(resolver), EngagementSession(), func(c *gin.Context) {
		c.String(http.StatusOK, EngagerFrom(c).Token)
	})

	t.Run("generated", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodPost, "/like", nil))
		token := w.Body.String()
		if !strings.HasPrefix(token, "anonymous_") {
			t.Fatalf("token = %q", token)
		}
		if got := w.Header().Get(SessionHeader); got != token {
			t.Fatalf("echoed %q, want %q", got, token)
		}
	})

	t.Run("session header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/like", nil)
		req.Header.Set(SessionHeader, "browser-42")
		w := do(r, req)
		if w.Body.String() != "browser-42" || w.Header().Get(SessionHeader) != "" {
			t.Fatalf("body %q header %q", w.Body.String(), w.Header().Get(SessionHeader))
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/like", nil)
		req.Header.Set("Authorization", "Bearer good")
		req.Header.Set(SessionHeader, "browser-42")
		if w := do(r, req); w.Body.String() != services.UserToken(alice.ID) {
			t.Fatalf("token = %q", w.Body.String())
		}
	})
}

func TestIssueRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	resolver, alice := newResolver()
	r := gin.New()
	r.POST("/issues", RequireAuth(resolver), IssueRateLimiter(RateLimit{
		Client: client,
		Prefix: "issue-limit",
		Limit:  2,
		Window: time.Hour,
		Log:    discard,
	}), func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/issues", nil)
		req.Header.Set("Authorization", "Bearer good")
		return do(r, req)
	}

	for i := 0; i < 2; i++ {
		if w := post(); w.Code != http.StatusCreated {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
	w := post()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d", w.Code)
	}
	var body struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.RetryAfter <= 0 {
		t.Fatalf("retry_after = %v (%v)", body.RetryAfter, err)
	}

	key := "issue-limit:" + alice.ID.Hex()
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl = %s", ttl)
	}

	mr.FastForward(time.Hour + time.Second)
	if w := post(); w.Code != http.StatusCreated {
		t.Fatalf("after window: status = %d", w.Code)
	}
}

func TestIssueRateLimiter_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/issues", IssueRateLimiter(RateLimit{Limit: 1}), func(c *gin.Context) { c.Status(http.StatusCreated) })
	for i := 0; i < 3; i++ {
		if w := do(r, httptest.NewRequest(http.MethodPost, "/issues", nil)); w.Code != http.StatusCreated {
			t.Fatalf("status = %d", w.Code)
		}
	}
}
