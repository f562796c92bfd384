package cmd

import (
	"github.com/urfave/cli"

	"github.com/warpdl/cookiekeeper/internal/bootstrap"
	"github.com/warpdl/cookiekeeper/internal/driver"
	"github.com/warpdl/cookiekeeper/internal/exporter"
)

// Environment variable names for configuration.
const (
	DriverPathEnv     = "COOKIEKEEPER_CHROMEDRIVER_PATH"
	JarPathEnv        = "COOKIEKEEPER_COOKIES_TXT_PATH"
	SiteURLEnv        = "COOKIEKEEPER_SITE_URL"
	ExportIntervalEnv = "COOKIEKEEPER_EXPORT_INTERVAL"
	ConnectRetryEnv   = "COOKIEKEEPER_CONNECT_RETRY"
	LoginPollEnv      = "COOKIEKEEPER_LOGIN_POLL"
	RenderGraceEnv    = "COOKIEKEEPER_RENDER_GRACE"
	LogFileEnv        = "COOKIEKEEPER_LOG_FILE"
)

var jarPathFlag = cli.StringFlag{
	Name:   "cookies-txt-path, o",
	Usage:  "cookie jar file to write",
	Value:  exporter.DefaultJarPath,
	EnvVar: JarPathEnv,
}

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "chromedriver-path, d",
		Usage:  "chromedriver executable, looked up in PATH when bare",
		Value:  driver.DefaultPath,
		EnvVar: DriverPathEnv,
	},
	jarPathFlag,
	cli.StringFlag{
		Name:   "site-url",
		Usage:  "site to sign in to and export cookies for",
		Value:  DEF_SITE_URL,
		EnvVar: SiteURLEnv,
	},
	cli.DurationFlag{
		Name:   "export-interval",
		Usage:  "pause between two cookie exports",
		Value:  exporter.DefaultInterval,
		EnvVar: ExportIntervalEnv,
	},
	cli.DurationFlag{
		Name:   "connect-retry",
		Usage:  "pause between attempts to reach chromedriver",
		Value:  bootstrap.DefaultConnectRetry,
		EnvVar: ConnectRetryEnv,
	},
	cli.DurationFlag{
		Name:   "login-poll",
		Usage:  "pause between checks while waiting for the sign in",
		Value:  bootstrap.DefaultLoginPoll,
		EnvVar: LoginPollEnv,
	},
	cli.DurationFlag{
		Name:   "render-grace",
		Usage:  "time given to the site to render before looking for the sign in link",
		Value:  bootstrap.DefaultRenderGrace,
		EnvVar: RenderGraceEnv,
	},
	cli.StringFlag{
		Name:   "log-file",
		Usage:  "also append log lines to this file",
		EnvVar: LogFileEnv,
	},
}

var showFlags = []cli.Flag{
	jarPathFlag,
	cli.StringFlag{
		Name:  "domain",
		Usage: "only list cookies for this domain and its subdomains",
	},
}
