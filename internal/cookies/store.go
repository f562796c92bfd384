package cookies

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// Format is the on-disk format of a cookie store.
type Format int

const (
	FormatUnknown Format = iota
	FormatNetscape
	FormatFirefox
	FormatChrome
)

func (f Format) String() string {
	switch f {
	case FormatNetscape:
		return "Netscape"
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	default:
		return "unknown"
	}
}

// Source describes where a set of loaded cookies came from.
type Source struct {
	Path   string
	Format Format
}

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// Load reads cookies for domain from the store at path. Firefox and Chrome
// SQLite stores are detected by their header and schema; anything else is
// read as a Netscape jar. An empty domain returns every cookie.
func Load(fs afero.Fs, path string, domain string) (*ParseResult, *Source, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error: cookie file not found: %s", path)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("error: %s is a directory, expected a cookie file path", path)
	}

	isDB, err := isSQLite(fs, path)
	if err != nil {
		return nil, nil, err
	}
	if !isDB {
		res, err := ParseNetscape(fs, path, domain)
		if err != nil {
			return nil, nil, err
		}
		return res, &Source{Path: path, Format: FormatNetscape}, nil
	}

	tempDir, cleanup, err := SafeCopy(fs, path)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()

	dbPath := filepath.Join(tempDir, filepath.Base(path))
	format, err := detectSQLiteFormat(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w at %s", err, path)
	}

	var cs []Cookie
	switch format {
	case FormatFirefox:
		cs, err = readCookieTable(dbPath, firefoxTable, domain)
	case FormatChrome:
		cs, err = readCookieTable(dbPath, chromeTable, domain)
	}
	if err != nil {
		return nil, nil, err
	}
	return &ParseResult{Cookies: cs}, &Source{Path: path, Format: format}, nil
}

func isSQLite(fs afero.Fs, path string) (bool, error) {
	f, err := fs.Open(path)
	if err != nil {
		return false, fmt.Errorf("error: cannot open cookie file: %w", err)
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, header)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("error: cannot read cookie file: %w", err)
	}
	return bytes.Equal(header[:n], sqliteMagic), nil
}

// detectSQLiteFormat checks which cookie table the database holds.
func detectSQLiteFormat(path string) (Format, error) {
	db, err := openSQLite(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&name)
	if err == nil {
		return FormatFirefox, nil
	}
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&name)
	if err == nil {
		return FormatChrome, nil
	}
	return FormatUnknown, fmt.Errorf("error: unsupported cookie database schema")
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", path))
	if err != nil {
		return nil, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	return db, nil
}
