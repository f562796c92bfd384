package bootstrap

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/warpdl/cookiekeeper/internal/webdriver"
)

var errStop = errors.New("stop")

// sleepRecorder records requested pauses without sleeping.
type sleepRecorder struct {
	calls []time.Duration
	// stopAfter makes the n-th call (1-based) return errStop. 0 disables.
	stopAfter int
}

func (s *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	if s.stopAfter > 0 && len(s.calls) >= s.stopAfter {
		return errStop
	}
	return nil
}

func (s *sleepRecorder) count(d time.Duration) int {
	n := 0
	for _, c := range s.calls {
		if c == d {
			n++
		}
	}
	return n
}

type fakeElement struct {
	clicks   int
	clickErr error
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.clicks++
	return e.clickErr
}

// fakeBrowser serves scripted answers. links holds one entry per
// FindLinkText call (nil means no link); hosts holds one host per CurrentURL
// call, the last one repeats.
type fakeBrowser struct {
	navigated []string
	navErr    error
	links     []*fakeElement
	findErr   error
	finds     int
	hosts     []string
	urlReads  int
}

func (b *fakeBrowser) Navigate(ctx context.Context, rawURL string) error {
	b.navigated = append(b.navigated, rawURL)
	return b.navErr
}

func (b *fakeBrowser) CurrentURL(ctx context.Context) (*url.URL, error) {
	i := b.urlReads
	if i >= len(b.hosts) {
		i = len(b.hosts) - 1
	}
	b.urlReads++
	return &url.URL{Scheme: "https", Host: b.hosts[i], Path: "/"}, nil
}

func (b *fakeBrowser) FindLinkText(ctx context.Context, text string) (Element, error) {
	i := b.finds
	b.finds++
	if b.findErr != nil {
		return nil, b.findErr
	}
	if i >= len(b.links) || b.links[i] == nil {
		return nil, &webdriver.Error{StatusCode: 404, Code: webdriver.CodeNoSuchElement}
	}
	return b.links[i], nil
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}
