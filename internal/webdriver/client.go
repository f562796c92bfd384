package webdriver

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/warpdl/cookiekeeper/internal/cookies"
)

// DefaultTimeout bounds a single WebDriver call. It sits above
// chromedriver's default 300s page load timeout so that navigation errors
// come from the driver rather than from us.
const DefaultTimeout = 6 * time.Minute

// elementKey is the W3C web element identifier key.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// Capabilities are the session capabilities sent on session creation.
type Capabilities map[string]any

// ChromeCapabilities returns capabilities passing args to Chrome through
// goog:chromeOptions.
func ChromeCapabilities(args ...string) Capabilities {
	return Capabilities{
		"goog:chromeOptions": map[string]any{
			"args": args,
		},
	}
}

// Client talks to one WebDriver remote end.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the remote end at baseURL,
// e.g. "http://127.0.0.1:9515".
func NewClient(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "cookiekeeper")
	return &Client{http: r}
}

type valueResponse[T any] struct {
	Value T `json:"value"`
}

type errorValue struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type newSessionRequest struct {
	Capabilities struct {
		AlwaysMatch Capabilities `json:"alwaysMatch"`
	} `json:"capabilities"`
	DesiredCapabilities Capabilities `json:"desiredCapabilities"`
}

type newSessionResponse struct {
	// legacy JSON wire protocol puts the id at the top level
	SessionID string `json:"sessionId"`
	Value     struct {
		SessionID    string         `json:"sessionId"`
		Capabilities map[string]any `json:"capabilities"`
	} `json:"value"`
}

// NewSession opens a new browser session.
func (c *Client) NewSession(ctx context.Context, caps Capabilities) (*Session, error) {
	var body newSessionRequest
	body.Capabilities.AlwaysMatch = caps
	body.DesiredCapabilities = caps

	var res newSessionResponse
	if err := c.do(ctx, resty.MethodPost, "/session", nil, body, &res); err != nil {
		return nil, err
	}

	id := res.Value.SessionID
	if id == "" {
		id = res.SessionID
	}
	if id == "" {
		return nil, fmt.Errorf("webdriver: new session response carries no session id")
	}
	return &Session{client: c, id: id}, nil
}

// Connect is NewClient(baseURL).NewSession(ctx, caps).
func Connect(ctx context.Context, baseURL string, caps Capabilities) (*Session, error) {
	return NewClient(baseURL).NewSession(ctx, caps)
}

// do performs one WebDriver command. body may be nil for GET requests and
// out may be nil when the result value is ignored.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	var remoteErr valueResponse[errorValue]
	req := c.http.R().
		SetContext(ctx).
		SetPathParams(params).
		SetError(&remoteErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("webdriver: %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		code := remoteErr.Value.Error
		if code == "" {
			code = CodeUnknownError
		}
		return &Error{
			StatusCode: resp.StatusCode(),
			Code:       code,
			Message:    remoteErr.Value.Message,
		}
	}
	return nil
}

// Session is an open WebDriver session. It is never closed explicitly;
// the browser goes away with the driver process.
type Session struct {
	client *Client
	id     string
}

// ID returns the remote session id.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) params(extra ...string) map[string]string {
	p := map[string]string{"sessionId": s.id}
	for i := 0; i+1 < len(extra); i += 2 {
		p[extra[i]] = extra[i+1]
	}
	return p
}

// Navigate loads rawURL in the current browsing context.
func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	body := map[string]string{"url": rawURL}
	return s.client.do(ctx, resty.MethodPost, "/session/{sessionId}/url", s.params(), body, nil)
}

// CurrentURL returns the URL of the current page.
func (s *Session) CurrentURL(ctx context.Context) (*url.URL, error) {
	var res valueResponse[string]
	if err := s.client.do(ctx, resty.MethodGet, "/session/{sessionId}/url", s.params(), nil, &res); err != nil {
		return nil, err
	}
	u, err := url.Parse(res.Value)
	if err != nil {
		return nil, fmt.Errorf("webdriver: invalid current url %q: %w", res.Value, err)
	}
	return u, nil
}

// Element is a remote element reference.
type Element struct {
	session *Session
	id      string
}

// ID returns the remote element id.
func (e *Element) ID() string {
	return e.id
}

// FindLinkText finds the first link whose visible text equals text.
// It returns an error matching ErrNoSuchElement when there is none.
func (s *Session) FindLinkText(ctx context.Context, text string) (*Element, error) {
	body := map[string]string{"using": "link text", "value": text}
	var res valueResponse[map[string]string]
	if err := s.client.do(ctx, resty.MethodPost, "/session/{sessionId}/element", s.params(), body, &res); err != nil {
		return nil, err
	}
	id := res.Value[elementKey]
	if id == "" {
		// pre-W3C drivers
		id = res.Value["ELEMENT"]
	}
	if id == "" {
		return nil, fmt.Errorf("webdriver: element response carries no element id")
	}
	return &Element{session: s, id: id}, nil
}

// Click clicks the element.
func (e *Element) Click(ctx context.Context) error {
	s := e.session
	return s.client.do(ctx, resty.MethodPost, "/session/{sessionId}/element/{elementId}/click",
		s.params("elementId", e.id), struct{}{}, nil)
}

type wireCookie struct {
	Name     string   `json:"name"`
	Value    string   `json:"value"`
	Domain   *string  `json:"domain"`
	Path     *string  `json:"path"`
	Secure   *bool    `json:"secure"`
	HTTPOnly *bool    `json:"httpOnly"`
	Expiry   *float64 `json:"expiry"`
	SameSite *string  `json:"sameSite"`
}

func (w wireCookie) cookie() cookies.Cookie {
	c := cookies.Cookie{
		Name:     w.Name,
		Value:    w.Value,
		Domain:   w.Domain,
		Path:     w.Path,
		Secure:   w.Secure,
		HTTPOnly: w.HTTPOnly,
	}
	if w.SameSite != nil {
		c.SameSite = cookies.ParseSameSite(*w.SameSite)
	}
	if w.Expiry != nil {
		c.Expires = cookies.Time(time.Unix(int64(*w.Expiry), 0))
	}
	return c
}

// Cookies returns every cookie visible to the current browsing context.
func (s *Session) Cookies(ctx context.Context) ([]cookies.Cookie, error) {
	var res valueResponse[[]wireCookie]
	if err := s.client.do(ctx, resty.MethodGet, "/session/{sessionId}/cookie", s.params(), nil, &res); err != nil {
		return nil, err
	}
	out := make([]cookies.Cookie, 0, len(res.Value))
	for _, w := range res.Value {
		out = append(out, w.cookie())
	}
	return out, nil
}
