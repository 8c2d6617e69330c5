package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fedutinova/docgen/internal/common"
)

type Config struct {
	HTTPAddr         string
	RequestTimeout   time.Duration
	InboundRateLimit int
	CORSOrigins      []string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAIMaxTokens  int
	PromptVariant    string
	FontPath         string
	FontFamily       string
	FontSize         float64
	DocumentHeader   string
	TempDir          string
	DownloadFilename string
	PDFCompress      bool
	PDFVerify        bool
	LogLevel         string
	LogFormat        string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
		slog.Warn("bad int env, using default", "key", key, "value", v)
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
		slog.Warn("bad float env, using default", "key", key, "value", v)
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "true" || v == "1" {
			return true
		}
		if v == "false" || v == "0" {
			return false
		}
		slog.Warn("bad bool env, using default", "key", key, "value", v)
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		slog.Warn("bad duration env, using default", "key", key, "value", v)
	}
	return def
}

func getList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	// try to find .env files starting from current directory and going up
	currentDir, err := os.Getwd()
	if err != nil {
		slog.Debug("failed to get current directory", "error", err)
		return
	}

	// look in current directory and up to 3 parent directories
	searchDirs := []string{currentDir}
	for i := 0; i < 3; i++ {
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break // reached root
		}
		searchDirs = append(searchDirs, parent)
		currentDir = parent
	}

	loadedAny := false
	for _, dir := range searchDirs {
		for _, envFile := range envFiles {
			envPath := filepath.Join(dir, envFile)
			if _, err := os.Stat(envPath); err == nil {
				if err := godotenv.Load(envPath); err == nil {
					slog.Debug("loaded environment file", "path", envPath)
					loadedAny = true
				} else {
					slog.Debug("failed to load environment file", "path", envPath, "error", err)
				}
			}
		}
		if loadedAny {
			break // stop searching once we find .env files in a directory
		}
	}

	if !loadedAny {
		slog.Debug("no .env files found, using system environment variables only")
	}
}

func Load() Config {
	loadEnvFiles()
	return Config{
		HTTPAddr:         getenv("HTTP_ADDR", ":8001"),
		RequestTimeout:   mustDuration("REQUEST_TIMEOUT", 120*time.Second),
		InboundRateLimit: mustInt("INBOUND_RATE_LIMIT", 0),
		CORSOrigins:      getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		OpenAIAPIKey:     getenv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getenv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getenv("OPENAI_MODEL", "gpt-4"),
		OpenAIMaxTokens:  mustInt("OPENAI_MAX_TOKENS", 1000),
		PromptVariant:    getenv("PROMPT_VARIANT", "refined"),
		FontPath:         getenv("FONT_PATH", "fonts/DejaVuSans.ttf"),
		FontFamily:       getenv("FONT_FAMILY", "DejaVu"),
		FontSize:         mustFloat("FONT_SIZE", 12),
		DocumentHeader:   getenv("DOCUMENT_HEADER", "Официальный документ"),
		TempDir:          getenv("TEMP_DIR", filepath.Join(os.TempDir(), "docgen")),
		DownloadFilename: getenv("DOWNLOAD_FILENAME", "generated_document.pdf"),
		PDFCompress:      getBool("PDF_COMPRESS", true),
		PDFVerify:        getBool("PDF_VERIFY", true),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
	}
}

// Validate reports startup faults. A service with an invalid config must not serve.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set: %w", common.ErrConfig)
	}
	switch c.PromptVariant {
	case "refined", "legacy":
	default:
		return fmt.Errorf("unknown PROMPT_VARIANT %q: %w", c.PromptVariant, common.ErrConfig)
	}
	if c.OpenAIMaxTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d: %w", c.OpenAIMaxTokens, common.ErrConfig)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("FONT_SIZE must be positive: %w", common.ErrConfig)
	}
	if c.DownloadFilename == "" || strings.ContainsAny(c.DownloadFilename, "\"/\r\n") {
		return fmt.Errorf("invalid DOWNLOAD_FILENAME %q: %w", c.DownloadFilename, common.ErrConfig)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto slog levels; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
