package testrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"trexport/common"
)

// Run is test run metadata as returned by get_run.
type Run struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Refs        string `json:"refs"`
	URL         string `json:"url"`
	CreatedOn   int64  `json:"created_on"`
	CreatedBy   int64  `json:"created_by"`
	CompletedOn int64  `json:"completed_on"`
	IsCompleted bool   `json:"is_completed"`
}

// Test is a single test case instance inside a run.
type Test struct {
	ID       int64  `json:"id"`
	CaseID   int64  `json:"case_id"`
	Title    string `json:"title"`
	StatusID int    `json:"status_id"`
}

func (t *Test) Status() common.Status {
	return common.StatusFromCode(t.StatusID)
}

// Result is one recorded result of a test.
type Result struct {
	ID          int64           `json:"id"`
	TestID      int64           `json:"test_id"`
	StatusID    int             `json:"status_id"`
	Comment     string          `json:"comment"`
	CreatedOn   int64           `json:"created_on"`
	Attachments []AttachmentRef `json:"attachments"`
	// AttachmentIDs is used by TestRail versions which do not expand
	// attachment objects.
	AttachmentIDs []AttachmentID `json:"attachment_ids"`
}

// AttachmentRefs returns result attachments in original order.
func (r *Result) AttachmentRefs() []AttachmentRef {
	if len(r.Attachments) > 0 {
		return r.Attachments
	}
	refs := make([]AttachmentRef, 0, len(r.AttachmentIDs))
	for _, id := range r.AttachmentIDs {
		refs = append(refs, AttachmentRef{ID: id})
	}
	return refs
}

// AttachmentRef points to a file attached to a result.
type AttachmentRef struct {
	ID AttachmentID `json:"id"`
}

// AttachmentID is numeric in older TestRail versions and an opaque string
// in newer ones, both forms are kept as string.
type AttachmentID string

func (id *AttachmentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AttachmentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("attachment id must be a number or a string: %w", err)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("attachment id %s is not an integer", n)
	}
	*id = AttachmentID(n.String())
	return nil
}
