package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultListenAddr     = ":8080"
	DefaultLogDestination = "Logs"
	DefaultTimeZone       = "UTC"
	DefaultMetricInterval = 15 * time.Second
)

// Snapshot store backends.
const (
	SnapshotMemory   = "memory"
	SnapshotPostgres = "postgres"
	SnapshotRedis    = "redis"
)

// Log sink backends.
const (
	SinkPostgres = "postgres"
	SinkSQLite   = "sqlite"
	SinkCSV      = "csv"
)

// Configuration is built once at startup and handed to every component.
type Configuration struct {
	ListenAddr string

	TimeZone string
	Location *time.Location

	// Single-document mode: every notification belongs to DocumentID and is
	// logged to LogDestination. Used when no sources file is configured.
	DocumentID     string
	LogDestination string

	// Multi-document mode: one log destination per monitored document.
	Sources       []MonitoredSource
	MultiDocument bool

	SnapshotBackend string
	SinkBackend     string

	PostgresDSN string
	RedisURL    string
	SQLitePath  string
	CSVDir      string

	LogLevel  string
	LogFormat string

	// OTLPEndpoint is the gRPC collector metrics are pushed to. Empty disables export.
	OTLPEndpoint   string
	OTLPInsecure   bool
	MetricInterval time.Duration
}

// LoadEnvConfig loads a dotenv file (if present) into the environment and
// builds the configuration from SHEETAUDIT_* variables.
func LoadEnvConfig(configName string) (Configuration, error) {
	if configName != "" {
		err := godotenv.Load(configName)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Configuration{}, fmt.Errorf("error loading %s: %w", configName, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment.
func FromEnv() (Configuration, error) {
	cfg := Configuration{
		ListenAddr:      getEnv("SHEETAUDIT_LISTEN_ADDR", DefaultListenAddr),
		TimeZone:        getEnv("SHEETAUDIT_TIMEZONE", DefaultTimeZone),
		DocumentID:      os.Getenv("SHEETAUDIT_DOCUMENT_ID"),
		LogDestination:  getEnv("SHEETAUDIT_LOG_DESTINATION", DefaultLogDestination),
		SnapshotBackend: strings.ToLower(getEnv("SHEETAUDIT_SNAPSHOT_BACKEND", SnapshotMemory)),
		SinkBackend:     strings.ToLower(getEnv("SHEETAUDIT_SINK_BACKEND", SinkCSV)),
		PostgresDSN:     os.Getenv("SHEETAUDIT_POSTGRES_DSN"),
		RedisURL:        getEnv("SHEETAUDIT_REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:      getEnv("SHEETAUDIT_SQLITE_PATH", "sheetaudit.db"),
		CSVDir:          getEnv("SHEETAUDIT_CSV_DIR", "logs"),
		LogLevel:        getEnv("SHEETAUDIT_LOG_LEVEL", "info"),
		LogFormat:       getEnv("SHEETAUDIT_LOG_FORMAT", "text"),
		OTLPEndpoint:    os.Getenv("SHEETAUDIT_OTLP_ENDPOINT"),
		MetricInterval:  DefaultMetricInterval,
	}

	if v := os.Getenv("SHEETAUDIT_OTLP_INSECURE"); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return Configuration{}, fmt.Errorf("invalid SHEETAUDIT_OTLP_INSECURE %q: %w", v, err)
		}
		cfg.OTLPInsecure = insecure
	}
	if v := os.Getenv("SHEETAUDIT_METRIC_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			return Configuration{}, fmt.Errorf("invalid SHEETAUDIT_METRIC_INTERVAL %q", v)
		}
		cfg.MetricInterval = interval
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Configuration{}, fmt.Errorf("invalid SHEETAUDIT_TIMEZONE %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc

	if path := os.Getenv("SHEETAUDIT_SOURCES_FILE"); path != "" {
		sources, err := LoadSources(path)
		if err != nil {
			return Configuration{}, err
		}
		cfg.Sources = sources
		cfg.MultiDocument = true
	}

	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Validate checks backend selections and their required settings.
func (c Configuration) Validate() error {
	switch c.SnapshotBackend {
	case SnapshotMemory, SnapshotRedis:
	case SnapshotPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("snapshot backend %q requires SHEETAUDIT_POSTGRES_DSN", c.SnapshotBackend)
		}
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}

	switch c.SinkBackend {
	case SinkSQLite, SinkCSV:
	case SinkPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("sink backend %q requires SHEETAUDIT_POSTGRES_DSN", c.SinkBackend)
		}
	default:
		return fmt.Errorf("unknown sink backend %q", c.SinkBackend)
	}

	if c.MultiDocument {
		if len(c.Sources) == 0 {
			return fmt.Errorf("sources file lists no documents")
		}
		return nil
	}
	if c.DocumentID == "" {
		return fmt.Errorf("SHEETAUDIT_DOCUMENT_ID is required when no sources file is configured")
	}
	if c.LogDestination == "" {
		return fmt.Errorf("log destination must not be empty")
	}
	return nil
}

// Destination returns the log destination for a document. In single-document
// mode every document maps to LogDestination.
func (c Configuration) Destination(documentID string) (string, bool) {
	if !c.MultiDocument {
		return c.LogDestination, true
	}
	for _, src := range c.Sources {
		if src.DocumentID == documentID {
			return src.LogDestination, true
		}
	}
	return "", false
}

// Destinations lists every configured log destination once, in configuration order.
func (c Configuration) Destinations() []string {
	if !c.MultiDocument {
		return []string{c.LogDestination}
	}
	seen := make(map[string]bool, len(c.Sources))
	var out []string
	for _, src := range c.Sources {
		if !seen[src.LogDestination] {
			seen[src.LogDestination] = true
			out = append(out, src.LogDestination)
		}
	}
	return out
}

// SnapshotDocument returns the document id snapshots are namespaced by. In
// single-document mode all snapshots share one key.
func (c Configuration) SnapshotDocument(documentID string) string {
	if !c.MultiDocument {
		return ""
	}
	return documentID
}

// MonitoredDocuments lists the documents the setup operation subscribes.
func (c Configuration) MonitoredDocuments() []string {
	if !c.MultiDocument {
		return []string{c.DocumentID}
	}
	ids := make([]string, 0, len(c.Sources))
	for _, src := range c.Sources {
		ids = append(ids, src.DocumentID)
	}
	return ids
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
