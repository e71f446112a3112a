package progress

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/chrysalisos/hddimg/humanize"
)

func TestWriterCounts(t *testing.T) {
	Reset()
	w := io.MultiWriter(io.Discard, Writer{})
	for i := 0; i < 3; i++ {
		if _, err := w.Write(make([]byte, humanize.KiB)); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := Reset(), uint64(3*humanize.KiB); got != want {
		t.Errorf("Reset() = %d, want %d", got, want)
	}
	if got := Reset(); got != 0 {
		t.Errorf("Reset() after Reset() = %d, want 0", got)
	}
}

func TestLine(t *testing.T) {
	var p Reporter
	p.SetStatus("allocating")
	if got, want := p.line(0, 512), "[allocating] 512 B/s"; !strings.Contains(got, want) {
		t.Errorf("line without total = %q, want it to contain %q", got, want)
	}

	p.SetTotal(humanize.GiB)
	got := p.line(humanize.GiB/4, 256*humanize.MiB)
	want := "[allocating] 25.00% of 1 GiB, writing at 256 MiB/s"
	if !strings.HasPrefix(got, "\r") || !strings.Contains(got, want) {
		t.Errorf("line = %q, want it to contain %q", got, want)
	}
}

func TestReportStops(t *testing.T) {
	var buf bytes.Buffer
	p := &Reporter{Out: &buf}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		p.Report(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Report did not return after its context was done")
	}
}
