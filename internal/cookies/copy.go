package cookies

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// SafeCopy copies a SQLite cookie file (and its -wal and -shm companions if
// they exist) from fs to a temporary directory on the OS filesystem, where
// the SQLite driver can open it without contending with the browser that
// owns the database.
//
// The caller MUST call cleanup when done.
func SafeCopy(fs afero.Fs, srcPath string) (tempDir string, cleanup func(), err error) {
	info, err := fs.Stat(srcPath)
	if err != nil {
		return "", nil, fmt.Errorf("error: cookie file not found: %s", srcPath)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("error: %s is a directory, expected a cookie file path", srcPath)
	}
	if info.Size() == 0 {
		return "", nil, fmt.Errorf("error: cookie file at %s is empty or corrupted", srcPath)
	}

	osFs := afero.NewOsFs()
	tempDir, err = afero.TempDir(osFs, "", "cookiekeeper-cookies-")
	if err != nil {
		return "", nil, fmt.Errorf("error: cannot create temp directory: %w", err)
	}
	cleanup = func() {
		osFs.RemoveAll(tempDir)
	}

	baseName := filepath.Base(srcPath)
	if err := copyFile(fs, srcPath, osFs, filepath.Join(tempDir, baseName)); err != nil {
		cleanup()
		return "", nil, err
	}

	// companions are best-effort
	for _, suffix := range []string{"-wal", "-shm"} {
		companion := srcPath + suffix
		if _, err := fs.Stat(companion); err == nil {
			_ = copyFile(fs, companion, osFs, filepath.Join(tempDir, baseName+suffix))
		}
	}

	return tempDir, cleanup, nil
}

func copyFile(srcFs afero.Fs, src string, dstFs afero.Fs, dst string) error {
	in, err := srcFs.Open(src)
	if err != nil {
		return fmt.Errorf("error: cannot open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := dstFs.Create(dst)
	if err != nil {
		return fmt.Errorf("error: cannot create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("error: cannot copy file: %w", err)
	}
	return nil
}
