package profile

import (
	"os"
	"testing"
)

func clearEngineEnvVars() {
	for _, key := range []string{
		"FITFLOW_HISTORY_DAYS",
		"FITFLOW_ANALYSIS_CRON",
		"FITFLOW_WEBHOOK_URL",
		"FITFLOW_TELEGRAM_TOKEN",
		"FITFLOW_TELEGRAM_CHAT_ID",
	} {
		os.Unsetenv(key)
	}
}

func TestProfileDefaults(t *testing.T) {
	clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.HistoryDays != 30 {
		t.Errorf("HistoryDays default: expected 30, got %d", profile.HistoryDays)
	}
	if profile.AnalysisCron != "@weekly" {
		t.Errorf("AnalysisCron default: expected @weekly, got %q", profile.AnalysisCron)
	}
	if profile.WebhookURL != "" {
		t.Errorf("WebhookURL default: expected empty, got %q", profile.WebhookURL)
	}
}

func TestProfileFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVar   string
		envValue string
		check    func(*Profile) bool
	}{
		{"history days override", "FITFLOW_HISTORY_DAYS", "90", func(p *Profile) bool { return p.HistoryDays == 90 }},
		{"cron override", "FITFLOW_ANALYSIS_CRON", "0 0 8 * * 1", func(p *Profile) bool { return p.AnalysisCron == "0 0 8 * * 1" }},
		{"webhook url", "FITFLOW_WEBHOOK_URL", "https://example.com/hook", func(p *Profile) bool { return p.WebhookURL == "https://example.com/hook" }},
		{"telegram chat id", "FITFLOW_TELEGRAM_CHAT_ID", "12345", func(p *Profile) bool { return p.TelegramChatID == 12345 }},
		{"invalid chat id ignored", "FITFLOW_TELEGRAM_CHAT_ID", "not-a-number", func(p *Profile) bool { return p.TelegramChatID == 0 }},
		{"non-positive history falls back", "FITFLOW_HISTORY_DAYS", "-5", func(p *Profile) bool { return p.HistoryDays == 30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEngineEnvVars()
			os.Setenv(tt.envVar, tt.envValue)
			defer os.Unsetenv(tt.envVar)

			profile := &Profile{}
			profile.FromEnv()
			if !tt.check(profile) {
				t.Errorf("%s: unexpected profile state %+v", tt.name, profile)
			}
		})
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	profile := &Profile{Mode: "dev", Driver: "postgres", Data: os.TempDir()}
	if err := profile.Validate(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestValidateDefaultsDSN(t *testing.T) {
	profile := &Profile{Mode: "dev", Driver: "sqlite", Data: os.TempDir()}
	if err := profile.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.DSN == "" {
		t.Fatal("expected DSN to be derived from data dir")
	}
}
