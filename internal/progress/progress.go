// Package progress renders file progress on stderr for the CLI.
package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
)

// Tracker is a progress bar fed by the analyzer's progress callback.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	w     io.Writer
}

// NewTracker creates a progress bar on stderr for total files.
func NewTracker(label string, total int) *Tracker {
	return NewWriterTracker(os.Stderr, label, total)
}

// NewWriterTracker creates a progress bar that draws on w.
func NewWriterTracker(w io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, w: w}
}

// Update moves the bar to current of total and names the file just
// collected. Its signature matches analyzer.ProgressFunc.
func (t *Tracker) Update(current, total int, path string) {
	if total > 0 && int64(total) != t.bar.GetMax64() {
		t.bar.ChangeMax(total)
	}
	t.bar.Describe(fmt.Sprintf("%s %s", t.label, filepath.Base(path)))
	_ = t.bar.Set(current)
}

// FinishSuccess clears the bar, leaving no output behind.
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints err in its place.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.w, "  %s error: %v\n", t.label, err)
}
