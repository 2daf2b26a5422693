package gemini

import (
	"testing"
	"time"
)

func TestNewClient_defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	c := NewClient(Config{}, nil)
	if c.cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env fallback", c.cfg.APIKey)
	}
	if c.cfg.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", c.cfg.Model)
	}
	if c.cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", c.cfg.Timeout)
	}
	if c.log == nil {
		t.Error("logger must never be nil")
	}
}

func TestNewClient_explicitConfigWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	c := NewClient(Config{APIKey: "direct", Model: "gemini-2.5-pro", Timeout: time.Minute}, nil)
	if c.cfg.APIKey != "direct" || c.cfg.Model != "gemini-2.5-pro" || c.cfg.Timeout != time.Minute {
		t.Errorf("cfg = %+v", c.cfg)
	}
}
