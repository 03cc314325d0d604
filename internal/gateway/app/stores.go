package app

import (
	"fmt"
	"log"
	"strings"

	artifactcache "github.com/spivx/devcontext-sub000/internal/cache/artifact"
	"github.com/spivx/devcontext-sub000/internal/gateway/config"
	artifactrepo "github.com/spivx/devcontext-sub000/internal/gateway/repository/artifact"
	"github.com/spivx/devcontext-sub000/internal/gateway/repository/scanstore"
)

// initArtifactStore picks S3 when fully configured, then a local directory,
// then the scan database, then memory. Whatever is picked gets a read cache.
func initArtifactStore(cfg *config.Config, scans *scanstore.Store) (artifactrepo.Store, error) {
	var origin artifactrepo.Store
	switch {
	case cfg.Artifact.CanUseS3():
		s3Cfg := artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		}
		s3Store, err := artifactrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		log.Printf("artifact store: s3 bucket=%s endpoint=%s", s3Cfg.Bucket, s3Cfg.Endpoint)
		origin = s3Store
	case strings.TrimSpace(cfg.Artifact.Dir) != "":
		log.Printf("artifact store: disk dir=%s", cfg.Artifact.Dir)
		origin = artifactrepo.NewDiskStore(cfg.Artifact.Dir)
	case scans.DB() != nil:
		log.Printf("artifact store: postgres")
		origin = artifactrepo.NewPostgresStore(scans.DB())
	default:
		if cfg.Artifact.Endpoint != "" {
			log.Printf("artifact store: using in-memory fallback (s3 config incomplete)")
		}
		origin = artifactrepo.NewMemoryStore()
	}
	return artifactcache.NewCachedStore(origin, artifactcache.DefaultCacheConfig()), nil
}
