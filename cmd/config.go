package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/warpdl/cookiekeeper/internal/bootstrap"
	"github.com/warpdl/cookiekeeper/internal/driver"
	"github.com/warpdl/cookiekeeper/internal/exporter"
)

// DEF_SITE_URL is the site signed in to when none is configured.
const DEF_SITE_URL = "https://www.youtube.com/"

// disableAutomationFlag hides the navigator.webdriver marker from pages.
const disableAutomationFlag = "--disable-blink-features=AutomationControlled"

const DESCRIPTION = `
cookiekeeper starts chromedriver, opens a real browser window on the
configured site and waits for you to sign in. Once signed in it writes
the session cookies to a Netscape cookie jar (cookies.txt), and keeps
refreshing that file every few hours for as long as it runs.
`

const (
	RunDescription = `The run command reserves a local port, starts chromedriver on it,
opens the site and waits for a manual sign in. It then exports the
cookies to the jar file on a fixed interval until it is killed.

Example:
        cookiekeeper --cookies-txt-path ~/yt/cookies.txt

`
	ShowDescription = `The show command lists the cookies stored in a jar written by
run, or in a Firefox (cookies.sqlite) or Chrome (Cookies) profile
database. Cookie values are never printed.

Example:
        cookiekeeper show --domain youtube.com cookies.txt

`
)

// Config is the validated configuration of the run command.
type Config struct {
	DriverPath     string
	JarPath        string
	SiteURL        *url.URL
	ExportInterval time.Duration
	ConnectRetry   time.Duration
	LoginPoll      time.Duration
	RenderGrace    time.Duration
	LogFile        string
}

// configFromContext reads and validates the run flags.
func configFromContext(ctx *cli.Context) (*Config, error) {
	cfg := &Config{
		DriverPath:     strings.TrimSpace(ctx.String("chromedriver-path")),
		JarPath:        strings.TrimSpace(ctx.String("cookies-txt-path")),
		ExportInterval: ctx.Duration("export-interval"),
		ConnectRetry:   ctx.Duration("connect-retry"),
		LoginPoll:      ctx.Duration("login-poll"),
		RenderGrace:    ctx.Duration("render-grace"),
		LogFile:        strings.TrimSpace(ctx.String("log-file")),
	}
	if cfg.DriverPath == "" {
		return nil, errors.New("chromedriver path must not be empty")
	}
	if cfg.JarPath == "" {
		return nil, errors.New("cookies.txt path must not be empty")
	}

	site, err := parseSiteURL(ctx.String("site-url"))
	if err != nil {
		return nil, err
	}
	cfg.SiteURL = site

	for name, d := range map[string]time.Duration{
		"export-interval": cfg.ExportInterval,
		"connect-retry":   cfg.ConnectRetry,
		"login-poll":      cfg.LoginPoll,
		"render-grace":    cfg.RenderGrace,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("--%s must be positive, got %s", name, d)
		}
	}
	return cfg, nil
}

func parseSiteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid site url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid site url %q: scheme must be http or https", raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("invalid site url %q: missing host", raw)
	}
	return u, nil
}

func (c *Config) bootstrapConfig() *bootstrap.Config {
	return &bootstrap.Config{
		SiteURL:      c.SiteURL,
		ConnectRetry: c.ConnectRetry,
		RenderGrace:  c.RenderGrace,
		LoginPoll:    c.LoginPoll,
	}
}

func (c *Config) exporterConfig() *exporter.Config {
	return &exporter.Config{
		SiteURL:  c.SiteURL,
		JarPath:  c.JarPath,
		Interval: c.ExportInterval,
	}
}

func (c *Config) driverConfig() driver.Config {
	return driver.Config{Path: c.DriverPath}
}
