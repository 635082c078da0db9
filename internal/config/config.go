package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds
const (
	SourceSheets   = "sheets"
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all runtime settings. It is built once at startup and
// passed by value to constructors; nothing mutates it afterwards.
type Config struct {
	TelegramToken string

	DataSource  string // sheets | csv | postgres
	CredsFile   string // Google service account JSON
	SheetID     string
	CSVPath     string
	DatabaseURL string

	CacheTTL         time.Duration
	MaxSearchResults int
	MaxMessageLength int

	HTTPAddr      string
	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// Reply keyboard labels; free text equal to one of these is
	// routed to the matching command instead of search.
	MenuButton     string
	ContactsButton string
	HelpButton     string

	// Item id the contacts button jumps to
	ContactsRootID string
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	// Missing .env is fine, env vars may come from the host
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		DataSource:  getEnv("DATA_SOURCE", SourceSheets),
		CredsFile:   os.Getenv("GOOGLE_CREDS_FILE"),
		SheetID:     os.Getenv("SHEET_ID"),
		CSVPath:     getEnv("CSV_PATH", "data/content.csv"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		MaxSearchResults: getEnvInt("MAX_SEARCH_RESULTS", 5),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 4000),

		HTTPAddr:      getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		MenuButton:     getEnv("MENU_BUTTON", "📋 Меню"),
		ContactsButton: getEnv("CONTACTS_BUTTON", "📞 Важные контакты"),
		HelpButton:     getEnv("HELP_BUTTON", "❓ Помощь"),

		ContactsRootID: getEnv("CONTACTS_ROOT_ID", "main_contacts"),
	}

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	switch cfg.DataSource {
	case SourceSheets:
		if cfg.CredsFile == "" || cfg.SheetID == "" {
			return Config{}, fmt.Errorf("sheets source requires GOOGLE_CREDS_FILE and SHEET_ID")
		}
	case SourceCSV:
		// CSVPath has a default
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("postgres source requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DataSource)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
