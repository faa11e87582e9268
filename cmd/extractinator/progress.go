package main

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/gnana997/extractinator/pkg/batch"
)

// progressReporter renders batch progress as a progress bar. Its methods
// are no-ops on a nil receiver, so callers need not check --progress.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer, total int) *progressReporter {
	return &progressReporter{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Extracting files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w)
			}),
		),
	}
}

func (p *progressReporter) callback() batch.ProgressCallback {
	if p == nil {
		return nil
	}
	return func(done, total int, file string) {
		_ = p.bar.Set(done)
	}
}

func (p *progressReporter) finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
