// Package dumputil provides shared output helpers for debug tools. It checks
// asset cache against its index and produces text reports and image archives.
package dumputil

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"trexport/assets"
	"trexport/images"
	"trexport/utils/debug"
)

// Checked is cache index entry verified against file on disk.
type Checked struct {
	assets.Entry
	// Actual is size of the file on disk, -1 when file is missing.
	Actual int64
	// Sniffed is extension detected from file content.
	Sniffed string
	// Geometry is intrinsic image size, zero when content is not a decodable
	// image.
	Geometry images.Dim
	Problems []string
	data     []byte
}

// Check reads every file recorded in the index from dir.
func Check(dir string, entries []assets.Entry) []Checked {
	out := make([]Checked, 0, len(entries))
	for _, e := range entries {
		c := Checked{Entry: e, Actual: -1}
		data, err := os.ReadFile(filepath.Join(dir, e.File))
		if err != nil {
			c.Problems = append(c.Problems, fmt.Sprintf("unreadable: %v", err))
			out = append(out, c)
			continue
		}
		c.Actual, c.data = int64(len(data)), data
		if c.Actual != e.Size {
			c.Problems = append(c.Problems, fmt.Sprintf("size mismatch: index %d, file %d", e.Size, c.Actual))
		}
		c.Sniffed = ExtFromFiletype(data)
		if ext := filepath.Ext(e.File); ext != "" && ext != c.Sniffed && c.Sniffed != ".bin" {
			c.Problems = append(c.Problems, fmt.Sprintf("extension %s does not match content %s", ext, c.Sniffed))
		}
		if strings.HasPrefix(e.ContentType, "image/") {
			if dim, err := images.Resolve(data); err == nil {
				c.Geometry = dim
			} else if e.ContentType != "image/svg+xml" {
				c.Problems = append(c.Problems, err.Error())
			}
		}
		out = append(out, c)
	}
	return out
}

// Report renders checked entries as indented text.
func Report(dir string, checked []Checked) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Cache %s: %d entries", dir, len(checked))
	bad := 0
	for _, c := range checked {
		tw.Line(0, "%s", c.ID)
		tw.Field(1, "File", c.File)
		tw.Field(1, "ContentType", c.ContentType)
		tw.Field(1, "Size", c.Size)
		tw.Field(1, "Fetched", c.FetchedAt.UTC().Format("2006-01-02 15:04:05"))
		if c.Geometry.Width > 0 {
			tw.Field(1, "Geometry", c.Geometry)
		}
		for _, p := range c.Problems {
			tw.Field(1, "Problem", p)
		}
		if len(c.Problems) > 0 {
			bad++
		}
	}
	tw.Line(0, "Problems found in %d entries", bad)
	return tw.String()
}

// WriteImages packs readable image files into <stem><suffix> zip archive
// naming them by resource id.
func WriteImages(checked []Checked, inPath, outDir, suffix string, overwrite bool) (retErr error) {
	outPath, err := outputPath(inPath, outDir, suffix, overwrite)
	if err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { retErr = errors.Join(retErr, f.Close()) }()

	zw := zip.NewWriter(f)
	defer func() { retErr = errors.Join(retErr, zw.Close()) }()

	written := 0
	for _, c := range checked {
		if c.data == nil || !strings.HasPrefix(c.ContentType, "image/") {
			continue
		}
		w, err := zw.Create(assets.CacheFileName(c.ID, strings.TrimPrefix(c.Sniffed, ".")))
		if err != nil {
			return err
		}
		if _, err := w.Write(c.data); err != nil {
			return err
		}
		written++
	}

	_, _ = fmt.Fprintf(os.Stderr, "images: wrote %d file(s) into %s\n", written, outPath)
	return nil
}

// WriteOutput writes data to <stem><suffix> in either the input's parent
// directory or outDir.
func WriteOutput(inPath, outDir, suffix string, data []byte, overwrite bool) error {
	outPath, err := outputPath(inPath, outDir, suffix, overwrite)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}

func outputPath(inPath, outDir, suffix string, overwrite bool) (string, error) {
	inPath = filepath.Clean(inPath)
	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inPath)
	if outDir != "" {
		dir = outDir
	}
	outPath := filepath.Join(dir, stem+suffix)

	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return "", fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return outPath, nil
}

// ExtFromFiletype detects the file extension from magic bytes.
func ExtFromFiletype(b []byte) string {
	kind, err := filetype.Match(b)
	if err == nil && kind != filetype.Unknown && kind.Extension != "" {
		return "." + kind.Extension
	}
	return ".bin"
}
