package maven

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvnq/mvnq/pkg/cache"
	apperrors "github.com/mvnq/mvnq/pkg/errors"
	"github.com/mvnq/mvnq/pkg/registry"
	"github.com/mvnq/mvnq/pkg/version"
)

// Defaults applied by NewClient when the corresponding Config field is zero.
const (
	DefaultSearchBaseURL = "https://search.maven.org/solrsearch/select"
	DefaultRepoBaseURL   = "https://repo1.maven.org/maven2"

	DefaultSearchTTL       = 6 * time.Hour
	DefaultPOMTTL          = 24 * time.Hour
	DefaultCacheMaxEntries = 2048

	// DefaultRows bounds how many version documents one query requests.
	DefaultRows = 200
	maxRows     = 500
)

// Config configures a Maven Central client.
type Config struct {
	// SearchBaseURL is the Solr search endpoint.
	SearchBaseURL string

	// RepoBaseURL is the repository root POMs are fetched from.
	RepoBaseURL string

	// HTTP is the shared transport; required.
	HTTP *registry.Client

	// DisableCache turns response memoization off. In-flight deduplication
	// of concurrent identical requests still applies.
	DisableCache bool

	// SearchTTL and POMTTL control how long search results and extracted
	// dependency lists are cached.
	SearchTTL time.Duration
	POMTTL    time.Duration

	// CacheMaxEntries bounds each of the two cache instances.
	CacheMaxEntries int

	// Rows bounds version documents per query (clamped to 1..500).
	Rows int

	// Logger receives debug-level operation logs. Optional.
	Logger *log.Logger
}

// Client queries Maven Central artifact metadata: version listings, latest
// stable version selection, free-text search, and declared dependencies
// extracted from POMs.
//
// Search results and dependency extractions are memoized in two
// independent TTL caches with in-flight deduplication, so concurrent
// identical requests collapse into one upstream call.
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http       *registry.Client
	searchBase string
	repoBase   string
	rows       int
	searchTTL  time.Duration
	pomTTL     time.Duration
	logger     *log.Logger

	searchCache *cache.Cache
	pomCache    *cache.Cache
}

// NewClient creates a Maven Central client. cfg.HTTP must be non-nil;
// every other field falls back to package defaults.
func NewClient(cfg Config) *Client {
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	if cfg.RepoBaseURL == "" {
		cfg.RepoBaseURL = DefaultRepoBaseURL
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = DefaultSearchTTL
	}
	if cfg.POMTTL <= 0 {
		cfg.POMTTL = DefaultPOMTTL
	}
	if cfg.CacheMaxEntries <= 0 {
		cfg.CacheMaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	return &Client{
		http:        cfg.HTTP,
		searchBase:  cfg.SearchBaseURL,
		repoBase:    cfg.RepoBaseURL,
		rows:        min(cfg.Rows, maxRows),
		searchTTL:   cfg.SearchTTL,
		pomTTL:      cfg.POMTTL,
		logger:      cfg.Logger,
		searchCache: cache.New(cfg.CacheMaxEntries, cache.WithDisabled(cfg.DisableCache)),
		pomCache:    cache.New(cfg.CacheMaxEntries, cache.WithDisabled(cfg.DisableCache)),
	}
}

// Versions returns the known versions of a coordinate, newest first.
// Pre-releases are excluded unless includePrereleases is set. A positive
// limit truncates the result; zero or negative means no limit.
//
// Returns a NOT_FOUND error when the coordinate has no versions at all.
func (c *Client) Versions(ctx context.Context, coord Coordinate, limit int, includePrereleases bool) ([]VersionInfo, error) {
	all, err := c.allVersions(ctx, coord)
	if err != nil {
		return nil, err
	}

	infos := all
	if !includePrereleases {
		infos = make([]VersionInfo, 0, len(all))
		for _, v := range all {
			if version.IsStable(v.Version) {
				infos = append(infos, v)
			}
		}
	}
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// LatestVersion returns the latest version of a coordinate: the
// comparator-maximum of all known versions, restricted to stable ones
// unless includePrereleases is set. Versions comparing equal are
// tie-broken on the lexically greater raw string so the selection is
// deterministic.
//
// Returns a NOT_FOUND error when the coordinate is unknown or every
// version is filtered out.
func (c *Client) LatestVersion(ctx context.Context, coord Coordinate, includePrereleases bool) (VersionInfo, error) {
	all, err := c.allVersions(ctx, coord)
	if err != nil {
		return VersionInfo{}, err
	}

	candidates := make([]string, 0, len(all))
	for _, v := range all {
		if includePrereleases || version.IsStable(v.Version) {
			candidates = append(candidates, v.Version)
		}
	}

	latest, ok := version.Latest(candidates)
	if !ok {
		return VersionInfo{}, apperrors.New(apperrors.ErrCodeNotFound,
			"no stable versions for %s (rerun with prereleases included)", coord)
	}

	for _, v := range all {
		if v.Version == latest {
			return v, nil
		}
	}
	return VersionInfo{Version: latest}, nil
}

// Dependencies returns the dependencies declared directly in the POM of
// coordinate@ver, sorted by (group, artifact, version). Dependencies whose
// scope (compile when undeclared) is not in scopes are dropped; a nil or
// empty scopes means [DefaultScopes].
//
// Only the POM itself is consulted: parent inheritance, BOM imports, and
// transitive resolution are out of scope, and versions that would need
// them are tagged with an UnresolvedReason instead.
func (c *Client) Dependencies(ctx context.Context, coord Coordinate, ver string, scopes []string) ([]Dependency, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	if err := apperrors.ValidateCoordinatePart("version", ver); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("deps:%s:%s", coord, ver)
	deps, err := cache.GetOrCompute(ctx, c.pomCache, key, c.pomTTL, func(ctx context.Context) ([]Dependency, error) {
		return c.fetchDependencies(ctx, coord, ver)
	})
	if err != nil {
		return nil, err
	}
	return filterScopes(deps, scopes), nil
}

// Search performs a free-text search against Maven Central and returns up
// to limit matching artifacts in upstream relevance order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Artifact, error) {
	if err := apperrors.ValidateQuery(query); err != nil {
		return nil, err
	}
	rows := limit
	if rows <= 0 {
		rows = 20
	}
	rows = min(rows, maxRows)

	key := fmt.Sprintf("search:%d:%s", rows, query)
	return cache.GetOrCompute(ctx, c.searchCache, key, c.searchTTL, func(ctx context.Context) ([]Artifact, error) {
		c.logger.Debug("searching maven central", "query", query, "rows", rows)

		var resp searchResponse
		if err := c.http.FetchJSON(ctx, searchURL(c.searchBase, query, rows), &resp); err != nil {
			return nil, err
		}

		artifacts := make([]Artifact, 0, len(resp.Response.Docs))
		for _, doc := range resp.Response.Docs {
			if doc.GroupID == "" || doc.ArtifactID == "" {
				continue
			}
			latest := doc.LatestVersion
			if latest == "" {
				latest = doc.Version
			}
			artifacts = append(artifacts, Artifact{
				GroupID:       doc.GroupID,
				ArtifactID:    doc.ArtifactID,
				LatestVersion: latest,
				Timestamp:     docTime(doc.Timestamp),
			})
		}
		return artifacts, nil
	})
}

// allVersions fetches (or reads from cache) every known version of a
// coordinate, sorted newest first. The cached value is unfiltered so one
// entry serves both the stable-only and include-prereleases views.
func (c *Client) allVersions(ctx context.Context, coord Coordinate) ([]VersionInfo, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("versions:%d:%s", c.rows, coord)
	return cache.GetOrCompute(ctx, c.searchCache, key, c.searchTTL, func(ctx context.Context) ([]VersionInfo, error) {
		c.logger.Debug("querying maven central versions", "coordinate", coord.String(), "rows", c.rows)

		var resp searchResponse
		if err := c.http.FetchJSON(ctx, versionsURL(c.searchBase, coord, c.rows), &resp); err != nil {
			return nil, err
		}
		if resp.Response.NumFound == 0 || len(resp.Response.Docs) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "maven artifact %s", coord)
		}

		infos := make([]VersionInfo, 0, len(resp.Response.Docs))
		raw := make([]string, 0, len(resp.Response.Docs))
		byVersion := make(map[string]VersionInfo, len(resp.Response.Docs))
		for _, doc := range resp.Response.Docs {
			v := doc.Version
			if v == "" {
				continue
			}
			if _, seen := byVersion[v]; seen {
				continue
			}
			info := VersionInfo{Version: v, Timestamp: docTime(doc.Timestamp)}
			byVersion[v] = info
			raw = append(raw, v)
		}

		// Order newest first, deterministically for equal versions.
		version.Sort(raw)
		for i := len(raw) - 1; i >= 0; i-- {
			infos = append(infos, byVersion[raw[i]])
		}
		return infos, nil
	})
}

func (c *Client) fetchDependencies(ctx context.Context, coord Coordinate, ver string) ([]Dependency, error) {
	url, err := pomURL(c.repoBase, coord, ver)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetching pom", "coordinate", coord.String(), "version", ver)
	data, err := c.http.Fetch(ctx, url)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "pom for %s:%s", coord, ver)
		}
		return nil, err
	}

	pom, err := parsePOM(data)
	if err != nil {
		return nil, err
	}
	return extractDependencies(pom), nil
}

func docTime(millis int64) *time.Time {
	if millis <= 0 {
		return nil
	}
	t := time.UnixMilli(millis).UTC()
	return &t
}
