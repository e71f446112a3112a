// Package progress reports the progress of long-running writes, such as
// zero-filling a disk image, on a single terminal status line.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chrysalisos/hddimg/humanize"
)

var bytesWritten uint64

// Reset returns the number of bytes counted so far and starts over.
func Reset() uint64 {
	return atomic.SwapUint64(&bytesWritten, 0)
}

// Writer counts the bytes written to it; pass it to io.MultiWriter next to
// the actual destination.
type Writer struct{}

func (w Writer) Write(p []byte) (n int, err error) {
	atomic.AddUint64(&bytesWritten, uint64(len(p)))
	return len(p), nil
}

type Reporter struct {
	// Out receives the status line. Defaults to os.Stderr.
	Out io.Writer

	total uint64

	mu     sync.Mutex
	status string
}

func (p *Reporter) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *Reporter) SetTotal(total uint64) {
	atomic.StoreUint64(&p.total, total)
}

func (p *Reporter) getStatus() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Reporter) line(written, bytesPerS uint64) string {
	rate := humanize.BPS(bytesPerS)
	status := rate
	if total := atomic.LoadUint64(&p.total); total > 0 {
		pct := float64(written) / float64(total) * 100
		status = fmt.Sprintf("%02.2f%% of %s, writing at %s",
			pct,
			humanize.Bytes(total),
			rate)
	}
	return fmt.Sprintf("\r[%s] %s                 ", p.getStatus(), status)
}

// Report prints the status line once a second until ctx is done, then
// terminates the line.
func (p *Reporter) Report(ctx context.Context) {
	out := p.Out
	if out == nil {
		out = os.Stderr
	}
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	last := atomic.LoadUint64(&bytesWritten)
	for {
		select {
		case <-ticker.C:
			written := atomic.LoadUint64(&bytesWritten)
			if written < last {
				// written was reset
				last = 0
			}
			bytesPerS := written - last
			last = written
			fmt.Fprint(out, p.line(written, bytesPerS))
		case <-ctx.Done():
			if last > 0 {
				fmt.Fprintln(out)
			}
			return
		}
	}
}
