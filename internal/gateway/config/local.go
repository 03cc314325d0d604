package config

import "path/filepath"

// applyLocalDefaults fills settings a developer machine rarely sets. The
// artifact store stays in memory unless a MinIO endpoint is given.
func applyLocalDefaults(cfg *Config) {
	cfg.ScanStore.Path = firstNonEmpty(cfg.ScanStore.Path, filepath.Join("tmp", "scans.json"))
	if cfg.Artifact.Endpoint != "" {
		cfg.Artifact.AccessKey = firstNonEmpty(cfg.Artifact.AccessKey, "devcontext")
		cfg.Artifact.SecretKey = firstNonEmpty(cfg.Artifact.SecretKey, "devcontext123")
	}
}
