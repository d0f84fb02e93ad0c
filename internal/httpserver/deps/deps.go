package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/inbox"
	"github.com/MrSnakeDoc/showcase/internal/index"
	"github.com/MrSnakeDoc/showcase/internal/logger"
	"github.com/MrSnakeDoc/showcase/internal/metrics"
)

// SnapshotStats reports what Redis keeps besides live connections
type SnapshotStats interface {
	CountEmails(ctx context.Context) (int64, error)
	SessionIDs(ctx context.Context) ([]string, error)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time   // for testing, defaults to time.Now
	AllowedHosts  []string           // Host headers allowed to access the server
	AllowedCIDRS  []string           // IPs allowed to access ops endpoints
	TrustProxy    bool               // true if running behind a trusted reverse proxy (e.g., cloudflared)
	SecureCookie  bool               // set the Secure flag on the session cookie
	RateBurst     int                // API token bucket size per client IP
	RatePerMin    int                // API token refill per minute
	MailboxFile   string             // Path to the mailbox file
	Location      *time.Location     // zone for date range day boundaries
	RedisClient   *redis.Client      // Redis client connection, nil in local runs
	Snapshot      SnapshotStats      // record snapshot and persisted sessions, nil in local runs
	MemoryIndex   *index.MemoryIndex // shared catalog
	Sessions      *inbox.Registry    // per-session inbox state
	Formats       *format.Catalog    // chameleon input presets
	Metrics       *metrics.Collector // nil disables instrumentation
	ReloadTrigger chan struct{}      // Channel to trigger manual mailbox reload
}

// Now returns the current time through TimeNow when set
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
