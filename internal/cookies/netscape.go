package cookies

import (
	"bufio"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	flagTrue  = "TRUE"
	flagFalse = "FALSE"

	httpOnlyPrefix = "#HttpOnly_"
)

// FormatRecord renders c as one 7-field, tab-separated jar line:
//
//	domain  samesite-lax  path  secure  expiry  name  value
//
// A leading dot on the domain is dropped, so ".youtube.com" is written as
// "youtube.com". Unset attributes fall back as follows: domain to the host of fallback
// (empty for IP literals or a nil URL), path to the path of fallback,
// secure to TRUE, expiry to now. An unset SameSite is treated as Strict,
// so only Lax renders TRUE in the second column.
func FormatRecord(c Cookie, fallback *url.URL, now time.Time) string {
	domain := fallbackDomain(fallback)
	if c.Domain != nil {
		domain = strings.TrimPrefix(*c.Domain, ".")
	}

	path := fallbackPath(fallback)
	if c.Path != nil {
		path = *c.Path
	}

	secure := true
	if c.Secure != nil {
		secure = *c.Secure
	}

	expires := now
	if c.Expires != nil {
		expires = *c.Expires
	}

	return strings.Join([]string{
		domain,
		boolFlag(c.SameSite == SameSiteLax),
		path,
		boolFlag(secure),
		strconv.FormatInt(expires.Unix(), 10),
		c.Name,
		c.Value,
	}, "\t")
}

// FormatJar renders all cookies as jar text. Records are joined by newlines
// and followed by one trailing empty line. No cookies yield empty output.
func FormatJar(cs []Cookie, fallback *url.URL, now time.Time) []byte {
	lines := make([]string, 0, len(cs)+1)
	for _, c := range cs {
		lines = append(lines, FormatRecord(c, fallback, now))
	}
	lines = append(lines, "")
	return []byte(strings.Join(lines, "\n"))
}

// WriteJar replaces the file at path with data. The file is truncated and
// written in a single call, never appended to.
func WriteJar(fs afero.Fs, path string, data []byte) error {
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("error: cannot write cookie jar %s: %w", path, err)
	}
	return nil
}

// ParseResult holds the cookies read from a jar and one warning per
// skipped line.
type ParseResult struct {
	Cookies  []Cookie
	Warnings []string
}

// ParseNetscape reads cookies from a Netscape-format cookie text file.
// When domain is non-empty only cookies matching it are returned.
// Lines starting with # are skipped, except #HttpOnly_ which sets the HttpOnly flag.
// Malformed lines are skipped and reported in ParseResult.Warnings.
// An expiry of 0 is read as a cookie without expiry.
func ParseNetscape(fs afero.Fs, filePath string, domain string) (*ParseResult, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()

	dotDomain := "." + domain
	res := &ParseResult{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: expected 7 fields, got %d", lineNo, len(fields)))
			continue
		}

		cookieDomain := fields[0]
		// fields[1] is the subdomain/samesite column, not needed for parsing
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: invalid expiry %q", lineNo, fields[4]))
			continue
		}

		if domain != "" && !matchesDomain(cookieDomain, domain, dotDomain) {
			continue
		}

		c := Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   String(cookieDomain),
			Path:     String(fields[2]),
			Secure:   Bool(strings.EqualFold(fields[3], flagTrue)),
			HTTPOnly: Bool(httpOnly),
		}
		if expiry > 0 {
			c.Expires = Time(time.Unix(expiry, 0))
		}
		res.Cookies = append(res.Cookies, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}

	return res, nil
}

// matchesDomain checks if a cookie domain matches the target domain.
// Matches: exact match, dot-prefix, or subdomain wildcard.
func matchesDomain(cookieDomain, domain, dotDomain string) bool {
	if cookieDomain == domain || cookieDomain == dotDomain {
		return true
	}
	// Subdomain match: cookie domain is sub.example.com and domain is example.com
	return strings.HasSuffix(cookieDomain, dotDomain)
}

func boolFlag(b bool) string {
	if b {
		return flagTrue
	}
	return flagFalse
}

// fallbackDomain returns the host of u, or "" when u is nil or its host is
// an IP literal rather than a domain name.
func fallbackDomain(u *url.URL) string {
	if u == nil {
		return ""
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return ""
	}
	return host
}

func fallbackPath(u *url.URL) string {
	if u == nil {
		return "/"
	}
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}
