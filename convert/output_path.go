package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"trexport/config"
	"trexport/testrail"
)

const outputExt = ".docx"

// buildOutputPath returns output file path. When dst names .docx file it is
// used as is, otherwise dst is a directory and file name comes either from
// default naming scheme or from user-defined template. Template may produce
// subdirectories, every path segment is cleaned and transliterated if
// requested.
func buildOutputPath(run *testrail.Run, dst string, cfg *config.ExportConfig, generated time.Time, log *zap.Logger) string {
	if strings.EqualFold(filepath.Ext(dst), outputExt) {
		return dst
	}

	defaultFile := defaultFileName(run.ID)
	if cfg.OutputNameTemplate == "" {
		return filepath.Join(dst, defaultFile)
	}

	expanded, err := expandTemplate(run, config.OutputNameTemplateFieldName, cfg.OutputNameTemplate, generated, cfg.Mode.String())
	if err != nil {
		log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(dst, defaultFile)
	}
	expanded = filepath.FromSlash(strings.TrimSpace(expanded))
	if expanded == "" {
		return filepath.Join(dst, defaultFile)
	}
	return assemblePathWithSubdirs(dst, expanded, cfg.FileNameTransliterate)
}

func defaultFileName(runID int64) string {
	return fmt.Sprintf("TestRun_%d_Export%s", runID, outputExt)
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path.
func assemblePathWithSubdirs(outDir, expandedName string, transliterate bool) string {
	segments := splitPath(expandedName)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments[:len(segments)-1] {
		if s == "." || s == ".." {
			continue
		}
		parts = append(parts, cleanPathSegment(s, transliterate))
	}
	name := strings.TrimSuffix(segments[len(segments)-1], outputExt)
	parts = append(parts, cleanPathSegment(name, transliterate)+outputExt)
	return filepath.Join(parts...)
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, transliterate bool) string {
	if transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
