package assets

import (
	"bytes"
	"strings"

	"github.com/h2non/filetype"
)

const svgMime = "image/svg+xml"

// classify decides content type of downloaded data. Declared type wins unless
// it is missing or generic, in which case bytes are sniffed. Returned ext is
// used for cache file names.
func classify(data []byte, declared string) (contentType, ext string, isImage bool) {
	declared = strings.ToLower(strings.TrimSpace(declared))

	kind, err := filetype.Match(data)
	known := err == nil && kind != filetype.Unknown

	switch {
	case declared != "" && !generic(declared):
		contentType = declared
	case known:
		contentType = kind.MIME.Value
	case looksLikeSVG(data):
		contentType = svgMime
	default:
		contentType = "application/octet-stream"
	}

	switch {
	case contentType == svgMime:
		ext = "svg"
	case known && kind.Extension != "":
		ext = kind.Extension
	default:
		ext = "bin"
	}
	return contentType, ext, strings.HasPrefix(contentType, "image/")
}

func generic(ct string) bool {
	switch ct {
	case "application/octet-stream", "binary/octet-stream", "application/binary", "application/unknown":
		return true
	}
	return false
}

func looksLikeSVG(data []byte) bool {
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}
