package domain

import "time"

// Failure pairs a mod identifier with the reason it could not be processed.
type Failure struct {
	Name    string `json:"name"`
	Message string `json:"error"`
}

// Result is the aggregate outcome of one download run. It is built
// incrementally, finalized once via Finalize, and not mutated afterwards.
//
// Downloaded and Failed reflect completion order, which under concurrent
// downloads is not plan order. Files holds the written archive file names,
// index-aligned with Downloaded; it feeds the mod-list.json writer and is
// not part of the caller-facing shape.
type Result struct {
	Success    bool          `json:"success"`
	Downloaded []string      `json:"downloaded"`
	Failed     []Failure     `json:"failed"`
	TotalBytes uint64        `json:"total_bytes"`
	Duration   time.Duration `json:"-"`
	Files      []string      `json:"-"`
}

// AddFailure records a failed identifier with its error.
func (r *Result) AddFailure(name string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.Failed = append(r.Failed, Failure{Name: name, Message: msg})
}

// AddDownloaded records a successfully fetched mod, the archive file it was
// written to, and its size.
func (r *Result) AddDownloaded(name, file string, size uint64) {
	r.Downloaded = append(r.Downloaded, name)
	r.Files = append(r.Files, file)
	r.TotalBytes += size
}

// Finalize stamps the duration and derives Success: true iff nothing failed.
func (r *Result) Finalize(start time.Time) *Result {
	r.Duration = time.Since(start)
	r.Success = len(r.Failed) == 0
	return r
}
