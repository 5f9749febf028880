package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"civicreport-be/policy"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TransitionMode != policy.FreeTransitions {
		t.Errorf("mode = %s", cfg.TransitionMode)
	}
	if cfg.IssueRateLimit != 10 || cfg.RateLimitWindow != 24*time.Hour || cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("limits = %d %s %s", cfg.IssueRateLimit, cfg.RateLimitWindow, cfg.JWTExpiry)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":    {"STORE_DRIVER": "memory"},
		"missing mongo uri": {"JWT_SECRET": "s", "STORE_DRIVER": "mongo"},
		"bad mode":          {"JWT_SECRET": "s", "STORE_DRIVER": "memory", "ISSUE_TRANSITION_MODE": "sideways"},
		"minio endpoint":    {"JWT_SECRET": "s", "STORE_DRIVER": "memory", "UPLOAD_DRIVER": "minio"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"JWT_SECRET", "STORE_DRIVER", "MONGODB_URI", "ISSUE_TRANSITION_MODE", "UPLOAD_DRIVER", "MINIO_ENDPOINT"} {
				t.Setenv(k, "")
			}
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_StrictModeAndLists(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ISSUE_TRANSITION_MODE", "strict")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TransitionMode != policy.StrictTransitions {
		t.Errorf("mode = %s", cfg.TransitionMode)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors = %v", cfg.CORSOrigins)
	}
}

func TestNewLogger_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, true, "info").Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("output = %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, false, "warn").Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
}

func TestLoad_MalformedValuesFail(t *testing.T) {
	for _, key := range []string{"ISSUE_RATE_LIMIT", "ISSUE_RATE_WINDOW", "JWT_EXPIRY", "MINIO_USE_SSL"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s")
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(key, "ten")

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Fatalf("err = %v, want mention of %s", err, key)
			}
		})
	}
}
