package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Members returns the member names of the archive at src in central
// directory order.
func Members(src string) ([]string, error) {
	zrc, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrArchiveRead, src, err)
	}
	defer zrc.Close()

	names := make([]string, 0, len(zrc.File))
	for _, f := range zrc.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// ReadMember returns the bytes of the member name in the archive at src.
// A missing member yields an error wrapping fs.ErrNotExist.
func ReadMember(src, name string) ([]byte, error) {
	zrc, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrArchiveRead, src, err)
	}
	defer zrc.Close()

	for _, f := range zrc.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open member %s: %w", ErrArchiveRead, name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read member %s: %w", ErrArchiveRead, name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("member %s: %w", name, fs.ErrNotExist)
}

// Extract writes every member of the archive at src into dir, creating
// intermediate directories as needed, and returns the number of files
// written. Member bytes are copied verbatim.
func Extract(src, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, ErrExpectedDirectory
	}

	zrc, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", ErrArchiveRead, src, err)
	}
	defer zrc.Close()

	count := 0
	for _, f := range zrc.File {
		target, err := stagingPath(dir, f.Name)
		if err != nil {
			return count, err
		}
		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return count, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return count, err
		}
		if err := extractFile(f, target); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// stagingPath maps a slash-separated member name onto dir, refusing names
// that would land outside of it.
func stagingPath(dir, name string) (string, error) {
	rel := filepath.FromSlash(strings.TrimSuffix(name, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: member %q escapes the extraction directory", ErrArchiveRead, name)
	}
	return filepath.Join(dir, rel), nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open member %s: %w", ErrArchiveRead, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: read member %s: %w", ErrArchiveRead, f.Name, err)
	}
	return out.Close()
}
