package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start main server.
type Profile struct {
	// Server
	Mode     string // "prod", "dev" or "demo"
	Addr     string
	Port     int
	UNIXSock string

	// Storage
	Data   string // data directory
	Driver string // database driver, only "sqlite" is supported
	DSN    string

	// Engine
	HistoryDays  int    // how many days of workout history each analysis run pulls
	AnalysisCron string // cron expression for the recurring weekly analysis

	// Notifications
	WebhookURL     string // outbound alert webhook endpoint, empty disables the sink
	TelegramToken  string // telegram bot token, empty disables the sink
	TelegramChatID int64

	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads engine and notification configuration from environment variables.
func (p *Profile) FromEnv() {
	p.HistoryDays = getEnvOrDefaultInt("FITFLOW_HISTORY_DAYS", 30)
	p.AnalysisCron = getEnvOrDefault("FITFLOW_ANALYSIS_CRON", "@weekly")

	p.WebhookURL = getEnvOrDefault("FITFLOW_WEBHOOK_URL", "")
	p.TelegramToken = getEnvOrDefault("FITFLOW_TELEGRAM_TOKEN", "")
	if chatID := os.Getenv("FITFLOW_TELEGRAM_CHAT_ID"); chatID != "" {
		if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
			p.TelegramChatID = id
		} else {
			slog.Warn("invalid FITFLOW_TELEGRAM_CHAT_ID, telegram sink disabled", "value", chatID)
		}
	}

	if p.HistoryDays <= 0 {
		slog.Warn("history window must be positive, using default", "days", p.HistoryDays)
		p.HistoryDays = 30
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" {
		return errors.Errorf("unsupported database driver %q, only sqlite is supported", p.Driver)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "fitflow")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/fitflow"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.DSN == "" {
		dbFile := fmt.Sprintf("fitflow_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
