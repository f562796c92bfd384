// Package exporter periodically snapshots the cookies of a logged-in browser
// session into a Netscape cookie-jar file.
package exporter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/afero"

	"github.com/warpdl/cookiekeeper/internal/clock"
	"github.com/warpdl/cookiekeeper/internal/cookies"
	"github.com/warpdl/cookiekeeper/pkg/logger"
)

const (
	// DefaultInterval is the pause between two exports.
	DefaultInterval = 6 * time.Hour

	// DefaultJarPath is the cookie jar written when none is configured.
	DefaultJarPath = "cookies.txt"
)

// Source is the part of a WebDriver session the exporter reads from.
type Source interface {
	Navigate(ctx context.Context, rawURL string) error
	CurrentURL(ctx context.Context) (*url.URL, error)
	Cookies(ctx context.Context) ([]cookies.Cookie, error)
}

// Config holds the exporter configuration.
type Config struct {
	// SiteURL is reloaded before every export.
	SiteURL *url.URL

	// JarPath is the cookie jar file, overwritten on every export.
	JarPath string

	// Interval is the pause between exports.
	Interval time.Duration
}

// Dependencies holds the external dependencies for the exporter.
type Dependencies struct {
	// Fs is where the jar is written. If nil, the OS filesystem is used.
	Fs afero.Fs

	// Sleep pauses between exports. If nil, clock.Sleep is used.
	Sleep clock.SleepFunc

	// Now stamps cookies without an expiry. If nil, time.Now is used.
	Now clock.NowFunc

	// Logger receives the per-export confirmation. If nil, messages are discarded.
	Logger logger.Logger
}

// Exporter writes cookie jar snapshots.
type Exporter struct {
	config *Config
	deps   *Dependencies
}

// New creates an exporter. config.SiteURL is required.
func New(config *Config, deps *Dependencies) *Exporter {
	return &Exporter{
		config: applyConfigDefaults(config),
		deps:   applyDependencyDefaults(deps),
	}
}

func applyConfigDefaults(config *Config) *Config {
	cfg := Config{}
	if config != nil {
		cfg = *config
	}
	if cfg.JarPath == "" {
		cfg.JarPath = DefaultJarPath
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &cfg
}

func applyDependencyDefaults(deps *Dependencies) *Dependencies {
	d := Dependencies{}
	if deps != nil {
		d = *deps
	}
	if d.Fs == nil {
		d.Fs = afero.NewOsFs()
	}
	if d.Sleep == nil {
		d.Sleep = clock.Sleep
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	return &d
}

// Run exports, sleeps for the configured interval and repeats. It only
// returns on error: any failed step ends the loop, nothing is retried.
func (e *Exporter) Run(ctx context.Context, src Source) error {
	for {
		if err := e.ExportOnce(ctx, src); err != nil {
			return err
		}
		if err := e.deps.Sleep(ctx, e.config.Interval); err != nil {
			return err
		}
	}
}

// ExportOnce reloads the site, reads every cookie and replaces the jar.
func (e *Exporter) ExportOnce(ctx context.Context, src Source) error {
	if e.config.SiteURL == nil {
		return fmt.Errorf("exporter: site url is not configured")
	}
	site := e.config.SiteURL.String()
	if err := src.Navigate(ctx, site); err != nil {
		return fmt.Errorf("navigate to %s: %w", site, err)
	}
	current, err := src.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("read current url: %w", err)
	}
	cs, err := src.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}

	data := cookies.FormatJar(cs, current, e.deps.Now())
	if err := cookies.WriteJar(e.deps.Fs, e.config.JarPath, data); err != nil {
		return err
	}
	e.deps.Logger.Info("Wrote %s (%d cookies)", e.config.JarPath, len(cs))
	return nil
}
