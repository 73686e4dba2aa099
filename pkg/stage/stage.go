// Package stage runs the recipe's packaging rule into a staging area and
// records the staged package identity in a cache.
//
// Because a header-only identity ignores settings, staging for
// gcc/x86_64/Release and then for clang/arm64/Debug hits the same cache
// entry, and the second run is skipped.
package stage

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/musicscience37/htbuild/pkg/cache"
	"github.com/musicscience37/htbuild/pkg/observability"
	"github.com/musicscience37/htbuild/pkg/recipe"
)

// cacheKeyType labels package records in cache hook events.
const cacheKeyType = "package"

// Record is what the cache remembers about a staged package.
type Record struct {
	Identity recipe.Identity `json:"identity"`
	Dest     string          `json:"dest"`
	Files    []string        `json:"files"`
	StagedAt time.Time       `json:"staged_at"`
}

// Request describes one staging run.
type Request struct {
	Source   string
	Dest     string
	Settings recipe.Settings
	Options  recipe.Options
	// Force re-copies even when the identity is already staged.
	Force bool
}

// Result is the staged record and whether it came from the cache.
type Result struct {
	Record Record
	Cached bool
}

// Stager packages a recipe into staging areas.
type Stager struct {
	recipe *recipe.Recipe
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// New creates a stager. A nil cache disables reuse; a nil logger uses
// log.Default().
func New(r *recipe.Recipe, c cache.Cache, ttl time.Duration, logger *log.Logger) *Stager {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Stager{recipe: r, cache: c, ttl: ttl, logger: logger}
}

// Stage packages the recipe into req.Dest unless a record for the same
// identity and destination exists and the destination is still present.
func (s *Stager) Stage(ctx context.Context, req Request) (*Result, error) {
	id := s.recipe.PackageID(req.Settings, req.Options)
	key := cache.PackageKey(id.String(), req.Dest)

	if !req.Force {
		if rec, ok := s.lookup(ctx, key, req.Dest); ok {
			s.logger.Debug("package already staged", "identity", id, "dest", req.Dest)
			return &Result{Record: rec, Cached: true}, nil
		}
	}

	files, err := s.recipe.Package(ctx, req.Source, req.Dest)
	if err != nil {
		return nil, err
	}
	rec := Record{
		Identity: id,
		Dest:     req.Dest,
		Files:    files,
		StagedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.ttl)
	}
	if err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	if err != nil {
		// The package is staged; only the reuse record is lost.
		s.logger.Warn("could not record staged package", "identity", id, "err", err)
	}
	return &Result{Record: rec}, nil
}

func (s *Stager) lookup(ctx context.Context, key, dest string) (Record, bool) {
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("package cache lookup failed", "err", err)
		return Record{}, false
	}
	var rec Record
	if hit {
		hit = json.Unmarshal(data, &rec) == nil
	}
	if hit {
		_, err := os.Stat(dest)
		hit = err == nil
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Record{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return rec, true
}
