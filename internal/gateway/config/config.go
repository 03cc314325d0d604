package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	GitHub    GitHubConfig
	ScanStore ScanStoreConfig
	// ScanCacheTTL bounds how long a repository scan is reused.
	ScanCacheTTL   time.Duration
	ConventionsDir string
	LogFile        string
	// CORSOrigins lists browser origins allowed to call the API; empty
	// allows any.
	CORSOrigins []string
	Artifact    ArtifactConfig
}

type GitHubConfig struct {
	Token  string
	APIURL string
}

type ScanStoreConfig struct {
	DSN  string
	Path string
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// Dir keeps files on local disk when S3 is not configured.
	Dir string
}

// CanUseS3 reports whether every setting the S3 store needs is present.
func (c ArtifactConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.Bucket) != ""
}

const defaultScanCacheTTL = 10 * time.Minute

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port: normalizePort(firstNonEmpty(strings.TrimSpace(os.Getenv("PORT")), "8081")),
		Env:  env,
		GitHub: GitHubConfig{
			Token:  firstNonEmpty(strings.TrimSpace(os.Getenv("GITHUB_TOKEN")), strings.TrimSpace(os.Getenv("GH_TOKEN"))),
			APIURL: strings.TrimSpace(os.Getenv("GITHUB_API_URL")),
		},
		ScanStore: ScanStoreConfig{
			DSN:  strings.TrimSpace(os.Getenv("SCAN_STORE_PG_DSN")),
			Path: strings.TrimSpace(os.Getenv("SCAN_STORE_PATH")),
		},
		ScanCacheTTL:   parseDuration(os.Getenv("SCAN_CACHE_TTL"), defaultScanCacheTTL),
		ConventionsDir: strings.TrimSpace(os.Getenv("CONVENTIONS_DIR")),
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
		CORSOrigins:    splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Artifact:       loadArtifactConfig(env),
	}
	if isLocal(env) {
		applyLocalDefaults(cfg)
	}
	return cfg, nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   isLocal(env) || endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "devcontext-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
		Dir:       strings.TrimSpace(os.Getenv("ARTIFACT_DIR")),
	}
}

func resolveArtifactEndpoint(env string) string {
	if isLocal(env) {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if isLocal(env) {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func normalizePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func isLocal(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
