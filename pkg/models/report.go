package models

import (
	"fmt"
	"strings"
)

// DefaultSampleLimit caps how many skipped/failed entries an ImportReport
// quotes verbatim; the remainder is reported as an overflow count.
const DefaultSampleLimit = 5

// ImportReport accumulates per-record outcomes of a bulk import. It is
// ephemeral: rendered for the user, never persisted.
type ImportReport struct {
	Succeeded int
	Skipped   []string // duplicate-skip descriptions, capped at SampleLimit
	Failed    []string // failure messages, capped at SampleLimit

	SkippedOverflow int // skips beyond the sample cap
	FailedOverflow  int // failures beyond the sample cap

	// SampleLimit is the per-category sample cap. Zero means
	// DefaultSampleLimit.
	SampleLimit int
}

func (r *ImportReport) limit() int {
	if r.SampleLimit > 0 {
		return r.SampleLimit
	}
	return DefaultSampleLimit
}

// AddSuccess records one successfully created client.
func (r *ImportReport) AddSuccess() {
	r.Succeeded++
}

// AddSkip records a duplicate-skip with a short description.
func (r *ImportReport) AddSkip(desc string) {
	if len(r.Skipped) < r.limit() {
		r.Skipped = append(r.Skipped, desc)
		return
	}
	r.SkippedOverflow++
}

// AddFailure records a per-record failure message.
func (r *ImportReport) AddFailure(msg string) {
	if len(r.Failed) < r.limit() {
		r.Failed = append(r.Failed, msg)
		return
	}
	r.FailedOverflow++
}

// TotalSkipped returns the full skip count including overflow.
func (r *ImportReport) TotalSkipped() int {
	return len(r.Skipped) + r.SkippedOverflow
}

// TotalFailed returns the full failure count including overflow.
func (r *ImportReport) TotalFailed() int {
	return len(r.Failed) + r.FailedOverflow
}

// Summary renders the human-readable import summary: success count, sampled
// skips with overflow, sampled failures with overflow. An import that changed
// nothing and reported nothing yields a fixed completion message.
func (r *ImportReport) Summary() string {
	var parts []string

	if r.Succeeded > 0 {
		parts = append(parts, fmt.Sprintf("Imported %d client(s).", r.Succeeded))
	}

	if n := r.TotalSkipped(); n > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Skipped %d duplicate(s):", n)
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "\n  - %s", s)
		}
		if r.SkippedOverflow > 0 {
			fmt.Fprintf(&b, "\n  ... and %d more", r.SkippedOverflow)
		}
		parts = append(parts, b.String())
	}

	if n := r.TotalFailed(); n > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "%d record(s) failed:", n)
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "\n  - %s", f)
		}
		if r.FailedOverflow > 0 {
			fmt.Fprintf(&b, "\n  ... and %d more", r.FailedOverflow)
		}
		parts = append(parts, b.String())
	}

	if len(parts) == 0 {
		return "Import completed with no changes."
	}
	return strings.Join(parts, "\n")
}
