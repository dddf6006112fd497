package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/memorybase/memorybase-go/pkg/longterm"
	"github.com/memorybase/memorybase-go/pkg/longterm/bos"
	"github.com/memorybase/memorybase-go/pkg/longterm/inmemory"
	"github.com/memorybase/memorybase-go/pkg/longterm/oss"
	"github.com/memorybase/memorybase-go/pkg/longterm/s3"
	"github.com/memorybase/memorybase-go/pkg/session"
	sessionPostgres "github.com/memorybase/memorybase-go/pkg/session/postgres"
	sessionSQLite "github.com/memorybase/memorybase-go/pkg/session/sqlite"
)

// backendCandidate is one entry in the ordered backend selection list.
//
// selected reports whether the family is fully configured; touched reports
// whether any of its keys is set at all. A touched-but-not-selected family
// is a partial configuration and fails fast instead of falling through.
type backendCandidate struct {
	name     string
	selected func(*LongTermConfig) bool
	touched  func(*LongTermConfig) bool
	build    func(*LongTermConfig) (longterm.ObjectStore, error)
}

// longTermCandidates is the backend selection policy, in priority order.
// Keeping it as an explicit list makes the policy auditable and testable
// without real credentials.
var longTermCandidates = []backendCandidate{
	{
		name: "s3",
		selected: func(c *LongTermConfig) bool {
			return c.S3.Bucket != "" && c.S3.AccessKeyID != "" && c.S3.SecretAccessKey != ""
		},
		touched: func(c *LongTermConfig) bool {
			return c.S3.Bucket != "" || c.S3.Endpoint != "" || c.S3.AccessKeyID != "" || c.S3.SecretAccessKey != ""
		},
		build: func(c *LongTermConfig) (longterm.ObjectStore, error) {
			return s3.NewClient(context.Background(), &s3.Config{
				Bucket:          c.S3.Bucket,
				Region:          c.S3.Region,
				Endpoint:        normalizeEndpoint(c.S3.Endpoint),
				AccessKeyID:     c.S3.AccessKeyID,
				SecretAccessKey: c.S3.SecretAccessKey,
			})
		},
	},
	{
		name: "bos",
		selected: func(c *LongTermConfig) bool {
			return c.BOS.Bucket != "" && c.BOS.AccessKey != "" && c.BOS.SecretKey != ""
		},
		touched: func(c *LongTermConfig) bool {
			return c.BOS.Bucket != "" || c.BOS.Endpoint != "" || c.BOS.AccessKey != "" || c.BOS.SecretKey != ""
		},
		build: func(c *LongTermConfig) (longterm.ObjectStore, error) {
			return bos.NewClient(&bos.Config{
				Bucket:    c.BOS.Bucket,
				AccessKey: c.BOS.AccessKey,
				SecretKey: c.BOS.SecretKey,
				Endpoint:  normalizeEndpoint(c.BOS.Endpoint),
			})
		},
	},
	{
		name: "oss",
		selected: func(c *LongTermConfig) bool {
			return c.OSS.Bucket != "" && c.OSS.Endpoint != "" && c.OSS.AccessKeyID != "" && c.OSS.AccessKeySecret != ""
		},
		touched: func(c *LongTermConfig) bool {
			return c.OSS.Bucket != "" || c.OSS.Endpoint != "" || c.OSS.AccessKeyID != "" || c.OSS.AccessKeySecret != ""
		},
		build: func(c *LongTermConfig) (longterm.ObjectStore, error) {
			return oss.NewClient(&oss.Config{
				Bucket:          c.OSS.Bucket,
				Endpoint:        normalizeEndpoint(c.OSS.Endpoint),
				AccessKeyID:     c.OSS.AccessKeyID,
				AccessKeySecret: c.OSS.AccessKeySecret,
			})
		},
	},
}

// CreateLongTermBackend selects and constructs the long-term object store
// from the configuration.
//
// Families are considered in order (s3, bos, oss) and the first fully
// configured one wins; when no family has any key set, the in-memory
// backend is returned. A family with some keys set but missing its bucket
// or credentials is ambiguous and fails with ErrInvalidConfig rather than
// silently falling back.
//
// The factory does not cache: callers are expected to hold a single
// instance per process.
func CreateLongTermBackend(cfg *LongTermConfig) (longterm.ObjectStore, string, error) {
	for _, candidate := range longTermCandidates {
		if candidate.selected(cfg) {
			store, err := candidate.build(cfg)
			if err != nil {
				return nil, "", NewMemoryError("CreateLongTermBackend", err)
			}
			return store, candidate.name, nil
		}
		if candidate.touched(cfg) {
			return nil, "", NewMemoryError("CreateLongTermBackend",
				fmt.Errorf("%s backend is partially configured (bucket and credentials are required): %w",
					candidate.name, ErrInvalidConfig))
		}
	}
	return inmemory.NewClient(), "inmemory", nil
}

// CreateSessionStore constructs the relational session store from the
// configuration. An empty provider yields (nil, nil): the session layer is
// optional.
func CreateSessionStore(cfg *DatabaseConfig) (session.Store, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "sqlite":
		return sessionSQLite.NewClient(&sessionSQLite.Config{
			DBPath: cfg.SQLitePath,
		})
	case "postgres":
		return sessionPostgres.NewClient(&sessionPostgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	default:
		return nil, NewMemoryError("CreateSessionStore",
			fmt.Errorf("unknown database provider %q: %w", cfg.Provider, ErrInvalidConfig))
	}
}

// normalizeEndpoint prefixes endpoints that lack a scheme with https://,
// so bare hostnames in configuration still produce secure transport.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" {
		return ""
	}
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}
