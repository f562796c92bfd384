package bootstrap

import (
	"net/url"
	"time"

	"github.com/warpdl/cookiekeeper/internal/clock"
	"github.com/warpdl/cookiekeeper/pkg/logger"
)

const (
	// DefaultConnectRetry is the pause between session creation attempts.
	DefaultConnectRetry = 5 * time.Second

	// DefaultRenderGrace is how long the site gets to render its sign-in
	// control after the first navigation.
	DefaultRenderGrace = 10 * time.Second

	// DefaultLoginPoll is the pause between checks of the current page while
	// a human completes the login elsewhere.
	DefaultLoginPoll = 5 * time.Second

	// DefaultSignInText is the visible text of the sign-in link.
	DefaultSignInText = "Sign in"
)

// Config holds the timing and site settings for the bootstrap phases.
type Config struct {
	// SiteURL is the root URL of the target site.
	SiteURL *url.URL

	// SignInText is the exact visible text of the sign-in link.
	SignInText string

	// ConnectRetry is the pause between failed session creation attempts.
	ConnectRetry time.Duration

	// RenderGrace is the fixed delay after the first navigation.
	RenderGrace time.Duration

	// LoginPoll is the pause between current-URL checks while awaiting login.
	LoginPoll time.Duration
}

// Dependencies holds the external dependencies of the bootstrap phases.
// This enables dependency injection for testing.
type Dependencies struct {
	// Sleep pauses between attempts. If nil, clock.Sleep is used.
	Sleep clock.SleepFunc

	// Logger receives retry and progress messages.
	// If nil, messages are discarded.
	Logger logger.Logger
}

// applyConfigDefaults returns a copy of config with zero fields defaulted.
func applyConfigDefaults(config *Config) *Config {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.SignInText == "" {
		cfg.SignInText = DefaultSignInText
	}
	if cfg.ConnectRetry <= 0 {
		cfg.ConnectRetry = DefaultConnectRetry
	}
	if cfg.RenderGrace <= 0 {
		cfg.RenderGrace = DefaultRenderGrace
	}
	if cfg.LoginPoll <= 0 {
		cfg.LoginPoll = DefaultLoginPoll
	}
	return &cfg
}

// applyDependencyDefaults returns Dependencies with default values applied.
func applyDependencyDefaults(deps *Dependencies) *Dependencies {
	d := Dependencies{}
	if deps != nil {
		d = *deps
	}
	if d.Sleep == nil {
		d.Sleep = clock.Sleep
	}
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	return &d
}
