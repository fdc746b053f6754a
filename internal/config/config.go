package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"codedigest/internal/scan"
)

// Config carries the tunables of one ingestion pipeline instance.
type Config struct {
	// IgnoreFragments are path segments excluded from analysis.
	IgnoreFragments []string `yaml:"ignore_fragments"`
	// IgnorePatterns are optional glob patterns layered on top of fragments.
	IgnorePatterns []string `yaml:"ignore_patterns"`
	// AliasMarker prefixes workspace-scoped import specifiers.
	AliasMarker string `yaml:"alias_marker"`
	// Workers bounds the per-file extraction pool; <=0 uses GOMAXPROCS.
	Workers int `yaml:"workers"`
	// MaxFileSize caps per-file processing in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`
	// DigestTopN caps the central-module list in the digest.
	DigestTopN int `yaml:"digest_top_n"`
	// CacheSize bounds the last-ingest result cache.
	CacheSize int `yaml:"cache_size"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		IgnoreFragments: append([]string(nil), scan.DefaultIgnoreFragments...),
		AliasMarker:     "@",
		MaxFileSize:     2 << 20,
		DigestTopN:      5,
		CacheSize:       8,
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that precedence order. A .env file is honored
// when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CODEDIGEST_CONFIG"))
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CODEDIGEST_IGNORE")); v != "" {
		cfg.IgnoreFragments = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("CODEDIGEST_ALIAS_MARKER")); v != "" {
		cfg.AliasMarker = v
	}
	if n, ok := envInt("CODEDIGEST_WORKERS"); ok {
		cfg.Workers = n
	}
	if n, ok := envInt("CODEDIGEST_MAX_FILE_SIZE"); ok {
		cfg.MaxFileSize = int64(n)
	}
	if n, ok := envInt("CODEDIGEST_TOP_N"); ok {
		cfg.DigestTopN = n
	}
	if n, ok := envInt("CODEDIGEST_CACHE_SIZE"); ok {
		cfg.CacheSize = n
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
