package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/warpdl/cookiekeeper/internal/bootstrap"
	"github.com/warpdl/cookiekeeper/internal/clock"
	"github.com/warpdl/cookiekeeper/internal/driver"
	"github.com/warpdl/cookiekeeper/internal/exporter"
	"github.com/warpdl/cookiekeeper/internal/portreserve"
	"github.com/warpdl/cookiekeeper/internal/webdriver"
	"github.com/warpdl/cookiekeeper/pkg/logger"
)

// fs is the filesystem used for the jar and the log file.
var fs afero.Fs = afero.NewOsFs()

// driverProcess is the running chromedriver child.
type driverProcess interface {
	Pid() int
}

// keeper owns the driver process and the browser session for the whole
// run. Neither is ever released; process exit is the only teardown.
type keeper struct {
	cfg   *Config
	log   logger.Logger
	fs    afero.Fs
	sleep clock.SleepFunc
	now   clock.NowFunc

	reservePort func() (int, error)
	spawnDriver func(cfg driver.Config, port int) (driverProcess, error)
	connect     func(ctx context.Context, baseURL string, caps webdriver.Capabilities) (*webdriver.Session, error)

	proc    driverProcess
	session *webdriver.Session
}

func newKeeper(cfg *Config, log logger.Logger) *keeper {
	return &keeper{
		cfg:         cfg,
		log:         log,
		fs:          fs,
		sleep:       clock.Sleep,
		reservePort: portreserve.Reserve,
		spawnDriver: func(c driver.Config, port int) (driverProcess, error) {
			return driver.Spawn(c, port)
		},
		connect: webdriver.Connect,
	}
}

// run bootstraps the session and exports cookies until something fails.
// It only ever returns an error.
func (k *keeper) run(ctx context.Context) error {
	port, err := k.reservePort()
	if err != nil {
		return fmt.Errorf("reserve driver port: %w", err)
	}

	k.proc, err = k.spawnDriver(k.cfg.driverConfig(), port)
	if err != nil {
		return fmt.Errorf("spawn driver: %w", err)
	}
	k.log.Info("Started %s (pid %d) on port %d", k.cfg.DriverPath, k.proc.Pid(), port)

	bcfg := k.cfg.bootstrapConfig()
	bdeps := &bootstrap.Dependencies{Sleep: k.sleep, Logger: k.log}
	baseURL := "http://" + net.JoinHostPort(portreserve.Host, strconv.Itoa(port))
	caps := webdriver.ChromeCapabilities(disableAutomationFlag)

	k.session, err = bootstrap.Establish(ctx, bcfg, bdeps, func(ctx context.Context) (*webdriver.Session, error) {
		return k.connect(ctx, baseURL, caps)
	})
	if err != nil {
		return fmt.Errorf("connect to driver: %w", err)
	}
	k.log.Info("Connected to %s, session %s", baseURL, k.session.ID())

	if err := bootstrap.NewGate(bcfg, bdeps).Run(ctx, bootstrap.SessionBrowser(k.session)); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	exp := exporter.New(k.cfg.exporterConfig(), &exporter.Dependencies{
		Fs:     k.fs,
		Sleep:  k.sleep,
		Now:    k.now,
		Logger: k.log,
	})
	if err := exp.Run(ctx, k.session); err != nil {
		return fmt.Errorf("export cookies: %w", err)
	}
	return nil
}

// newLogger returns the console logger, fanned out to logFile when set.
// fatal receives the final error of the run: main already prints it to
// stderr, so it only writes to the log file, and discards when there is none.
func newLogger(fs afero.Fs, logFile string) (l logger.Logger, fatal logger.Logger, err error) {
	console := logger.NewConsoleLogger()
	if logFile == "" {
		return console, logger.NewNopLogger(), nil
	}
	file, err := logger.NewFileLogger(fs, logFile)
	if err != nil {
		return nil, nil, err
	}
	return logger.NewMultiLogger(console, file), file, nil
}

func run(ctx *cli.Context) error {
	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	l, fatal, err := newLogger(fs, cfg.LogFile)
	if err != nil {
		return err
	}
	defer l.Close()

	err = newKeeper(cfg, l).run(context.Background())
	if err != nil {
		fatal.Error("%v", err)
	}
	return err
}
