package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// Values written into every entry by DefaultWriterConfig.
const (
	// BackupSuffix marks recovery copies left in the staging directory.
	BackupSuffix = ".backup"

	// CreatorMSDOS is the "version made by" host system for FAT/MS-DOS.
	CreatorMSDOS uint8 = 0

	// FileMode is the permission set recorded for every member.
	FileMode = 0o644
)

// housekeepingNames are files some hosts drop into directories on their own.
var housekeepingNames = []string{".DS_Store"}

// FixedTimestamp is the modification time stamped on every member.
var FixedTimestamp = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// WriterConfig pins every piece of per-entry metadata the writer emits.
// Nothing is taken from the staging files themselves except their bytes
// and relative paths.
type WriterConfig struct {
	Method          uint16
	Level           int
	Modified        time.Time
	CreatorSystem   uint8
	ExternalAttrs   uint32
	ExcludeSuffixes []string
	ExcludeNames    []string
}

// DefaultWriterConfig returns the reproducible configuration used for
// converted packages: deflate, 2023-01-01 00:00:00, MS-DOS host, 0644.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Method:          zip.Deflate,
		Level:           flate.DefaultCompression,
		Modified:        FixedTimestamp,
		CreatorSystem:   CreatorMSDOS,
		ExternalAttrs:   FileMode << 16,
		ExcludeSuffixes: []string{BackupSuffix},
		ExcludeNames:    slices.Clone(housekeepingNames),
	}
}

// Validate rejects configurations the writer cannot honour.
func (c WriterConfig) Validate() error {
	switch c.Method {
	case zip.Store:
	case zip.Deflate:
		if c.Level < flate.HuffmanOnly || c.Level > flate.BestCompression {
			return fmt.Errorf("%w: deflate level %d", ErrUnsupportedMethod, c.Level)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedMethod, c.Method)
	}
	if c.Modified.IsZero() {
		return fmt.Errorf("writer config has no fixed timestamp")
	}
	return nil
}

// Excluded reports whether a staging file with the given base name is left
// out of the packed archive.
func (c WriterConfig) Excluded(name string) bool {
	if slices.Contains(c.ExcludeNames, name) {
		return true
	}
	for _, suffix := range c.ExcludeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func (c WriterConfig) header(name string) *zip.FileHeader {
	return &zip.FileHeader{
		Name:           name,
		Method:         c.Method,
		Modified:       c.Modified,
		CreatorVersion: uint16(c.CreatorSystem) << 8,
		ExternalAttrs:  c.ExternalAttrs,
	}
}

// Pack writes every regular file under dir into a new archive at dest and
// returns the number of members written. Files are visited in directory
// walk order, which is lexical per directory. The archive is assembled in a
// temporary file beside dest and renamed into place, so a failure never
// leaves a partial archive at dest.
func Pack(dir, dest string, cfg WriterConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, ErrExpectedDirectory
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+"-*")
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %w", ErrArchiveWrite, dest, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := zip.NewWriter(tmp)
	if cfg.Method == zip.Deflate {
		level := cfg.Level
		w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || cfg.Excluded(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if err := addFile(w, cfg.header(filepath.ToSlash(rel)), path); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("%w: finish %s: %w", ErrArchiveWrite, dest, err)
	}
	if err := tmp.Chmod(FileMode); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("%w: move into %s: %w", ErrArchiveWrite, dest, err)
	}
	committed = true
	return count, nil
}

func addFile(w *zip.Writer, fh *zip.FileHeader, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	writer, err := w.CreateHeader(fh)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, f)
	return err
}
