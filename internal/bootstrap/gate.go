package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/warpdl/cookiekeeper/internal/webdriver"
)

// State is a step of the authentication gate.
type State int

const (
	// StateCheckingSignIn looks for the sign-in link on the current page.
	StateCheckingSignIn State = iota
	// StateAwaitingLogin polls until the browser is back on the site.
	StateAwaitingLogin
	// StateAuthenticated is terminal: no sign-in link is shown.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateCheckingSignIn:
		return "checking-sign-in"
	case StateAwaitingLogin:
		return "awaiting-login"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Element is a clickable page element.
type Element interface {
	Click(ctx context.Context) error
}

// Browser is the part of a WebDriver session the gate needs.
// FindLinkText must return an error matching webdriver.ErrNoSuchElement
// when the link is absent.
type Browser interface {
	Navigate(ctx context.Context, rawURL string) error
	CurrentURL(ctx context.Context) (*url.URL, error)
	FindLinkText(ctx context.Context, text string) (Element, error)
}

type sessionBrowser struct {
	*webdriver.Session
}

func (b sessionBrowser) FindLinkText(ctx context.Context, text string) (Element, error) {
	el, err := b.Session.FindLinkText(ctx, text)
	if err != nil {
		return nil, err
	}
	return el, nil
}

// SessionBrowser adapts a WebDriver session to Browser.
func SessionBrowser(s *webdriver.Session) Browser {
	return sessionBrowser{Session: s}
}

// Gate drives a browser until the target site shows no sign-in link.
type Gate struct {
	config *Config
	deps   *Dependencies

	// OnTransition, if set, is called on every state change.
	OnTransition func(from, to State)
}

// NewGate creates a gate. config.SiteURL is required.
func NewGate(config *Config, deps *Dependencies) *Gate {
	return &Gate{
		config: applyConfigDefaults(config),
		deps:   applyDependencyDefaults(deps),
	}
}

// Run navigates to the site, waits the render grace period and then runs
// the state machine until StateAuthenticated. It never times out; every
// remote error other than a missing sign-in link is returned.
func (g *Gate) Run(ctx context.Context, b Browser) error {
	if g.config.SiteURL == nil {
		return errors.New("gate: site url is not configured")
	}
	site := g.config.SiteURL.String()
	if err := b.Navigate(ctx, site); err != nil {
		return fmt.Errorf("navigate to %s: %w", site, err)
	}
	if err := g.deps.Sleep(ctx, g.config.RenderGrace); err != nil {
		return err
	}

	state := StateCheckingSignIn
	for state != StateAuthenticated {
		next, err := g.step(ctx, b, state)
		if err != nil {
			return err
		}
		if next != state && g.OnTransition != nil {
			g.OnTransition(state, next)
		}
		state = next
	}
	g.deps.Logger.Info("signed in to %s", g.config.SiteURL.Hostname())
	return nil
}

func (g *Gate) step(ctx context.Context, b Browser, state State) (State, error) {
	switch state {
	case StateCheckingSignIn:
		link, err := b.FindLinkText(ctx, g.config.SignInText)
		if errors.Is(err, webdriver.ErrNoSuchElement) {
			return StateAuthenticated, nil
		}
		if err != nil {
			return state, fmt.Errorf("look up %q link: %w", g.config.SignInText, err)
		}
		if err := link.Click(ctx); err != nil {
			return state, fmt.Errorf("click %q link: %w", g.config.SignInText, err)
		}
		g.deps.Logger.Info("Opened the login flow, complete it in the browser window")
		return StateAwaitingLogin, nil

	case StateAwaitingLogin:
		current, err := b.CurrentURL(ctx)
		if err != nil {
			return state, fmt.Errorf("read current url: %w", err)
		}
		if onSite(current, g.config.SiteURL) {
			return StateCheckingSignIn, nil
		}
		g.deps.Logger.Info("Waiting for login flow. Retrying in %s...", g.config.LoginPoll)
		if err := g.deps.Sleep(ctx, g.config.LoginPoll); err != nil {
			return state, err
		}
		return StateAwaitingLogin, nil
	}
	return state, fmt.Errorf("gate: unexpected state %s", state)
}

// onSite reports whether current is on the same host as site.
func onSite(current, site *url.URL) bool {
	host := current.Hostname()
	return host != "" && strings.EqualFold(host, site.Hostname())
}
