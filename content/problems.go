package content

import "sync/atomic"

// Problems counts non-fatal failures of a single export. Nil Problems
// ignores everything.
type Problems struct {
	results atomic.Int64
	images  atomic.Int64
}

func (p *Problems) resultsFailed() {
	if p != nil {
		p.results.Add(1)
	}
}

func (p *Problems) imageSkipped() {
	if p != nil {
		p.images.Add(1)
	}
}

// Results returns number of tests which results could not be fetched.
func (p *Problems) Results() int64 {
	if p == nil {
		return 0
	}
	return p.results.Load()
}

// Images returns number of skipped inline images and attachments.
func (p *Problems) Images() int64 {
	if p == nil {
		return 0
	}
	return p.images.Load()
}

func (p *Problems) Total() int64 {
	return p.Results() + p.Images()
}
