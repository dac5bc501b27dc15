package deps

import (
	"time"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/links"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/logger"
	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/metrics"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access ops endpoints (readyz, infra, reload, metrics)
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Links         *links.Service   // link operations (create, delete, search, visit, analytics)
	Store         *links.Store     // collection + snapshot slot, for readiness and infra
	ShortDomain   string           // prefix of displayed short URLs
	WindowDays    int              // default analytics window
	EnrichMode    string           // "gemini:<model>" or "fallback"
	ReloadTrigger chan struct{}    // Channel to trigger a snapshot reload
	Metrics       *metrics.Metrics // nil when metrics are disabled
}
