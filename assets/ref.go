package assets

import (
	"strings"

	"trexport/testrail"
)

type RefKind int

const (
	// KindInline is an image referenced from result comment.
	KindInline RefKind = iota
	// KindAttachment is a file attached to result.
	KindAttachment
)

func (k RefKind) String() string {
	if k == KindAttachment {
		return "attachment"
	}
	return "inline"
}

// Ref identifies remote resource. ID is used as cache key, Path is
// relative to TestRail base URL.
type Ref struct {
	Kind RefKind
	ID   string
	Path string
}

func (r Ref) String() string {
	return r.Kind.String() + ":" + r.ID
}

// InlineRef makes reference from comment marker target, for example
// "index.php?/attachments/get/123". Resource id is the last path element.
func InlineRef(path string) Ref {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	id := path
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		id = path[i+1:]
	}
	return Ref{Kind: KindInline, ID: id, Path: path}
}

// AttachmentRef makes reference for result attachment.
func AttachmentRef(id testrail.AttachmentID) Ref {
	return Ref{
		Kind: KindAttachment,
		ID:   string(id),
		Path: "index.php?/api/v2/get_attachment/" + string(id),
	}
}
