package cookies

import (
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT epoch
// (1601-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// chromeToUnix converts a Chrome timestamp (microseconds since 1601-01-01)
// to a Unix timestamp (seconds since 1970-01-01).
func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

func unixToChrome(unixSec int64) int64 {
	return (unixSec + chromeEpochOffsetSeconds) * 1_000_000
}

// cookieTable maps a browser cookie table onto the columns read by
// readCookieTable. Expiry columns are converted with toUnix/fromUnix.
type cookieTable struct {
	browser  string
	table    string
	host     string
	expiry   string
	secure   string
	httpOnly string
	// extra is ANDed to the WHERE clause.
	extra    string
	toUnix   func(int64) int64
	fromUnix func(int64) int64
}

var (
	firefoxTable = cookieTable{
		browser:  "Firefox",
		table:    "moz_cookies",
		host:     "host",
		expiry:   "expiry",
		secure:   "isSecure",
		httpOnly: "isHttpOnly",
		toUnix:   func(s int64) int64 { return s },
		fromUnix: func(s int64) int64 { return s },
	}
	// Encrypted-only Chrome cookies have an empty value column.
	chromeTable = cookieTable{
		browser:  "Chrome",
		table:    "cookies",
		host:     "host_key",
		expiry:   "expires_utc",
		secure:   "is_secure",
		httpOnly: "is_httponly",
		extra:    "value != ''",
		toUnix:   chromeToUnix,
		fromUnix: unixToChrome,
	}
)

// hostFilter returns the WHERE clause selecting column values that match
// domain, its dot form or any subdomain. An empty domain matches all rows.
func hostFilter(column, domain string) (string, []any) {
	if domain == "" {
		return "1 = 1", nil
	}
	return fmt.Sprintf("(%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?)", column),
		[]any{domain, "." + domain, "%." + domain}
}

func (t cookieTable) query(domain string, now time.Time) (string, []any) {
	where, args := hostFilter(t.host, domain)
	if t.extra != "" {
		where += " AND " + t.extra
	}
	q := fmt.Sprintf(`
        SELECT name, value, %s, path, %s, %s, %s
        FROM %s
        WHERE %s
          AND %s > ?
        ORDER BY path DESC, name ASC`,
		t.host, t.expiry, t.secure, t.httpOnly, t.table, where, t.expiry)
	return q, append(args, t.fromUnix(now.Unix()))
}

// readCookieTable reads the unexpired cookies matching domain from a copied
// browser database.
func readCookieTable(dbPath string, t cookieTable, domain string) ([]Cookie, error) {
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q, args := t.query(domain, time.Now())
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query %s cookies: %w", t.browser, err)
	}
	defer rows.Close()

	var cs []Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHTTPOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHTTPOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan %s cookie row: %w", t.browser, err)
		}
		cs = append(cs, Cookie{
			Name:     name,
			Value:    value,
			Domain:   String(host),
			Path:     String(path),
			Secure:   Bool(isSecure != 0),
			HTTPOnly: Bool(isHTTPOnly != 0),
			Expires:  Time(time.Unix(t.toUnix(expiry), 0)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate %s cookie rows: %w", t.browser, err)
	}
	return cs, nil
}
