package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/zenith/internal/stats"
)

// WriteSeries prints one line per day with a bar scaled to width.
// value selects what is charted, e.g. session count or minutes.
func WriteSeries(w io.Writer, buckets []stats.DayBucket, value func(stats.DayBucket) int, width int) error {
	peak := 0
	for _, b := range buckets {
		if v := value(b); v > peak {
			peak = v
		}
	}
	for _, b := range buckets {
		v := value(b)
		bar := 0
		if peak > 0 && width > 0 {
			bar = v * width / peak
			if v > 0 && bar == 0 {
				bar = 1
			}
		}
		line := strings.TrimRight(fmt.Sprintf("%2d %4d %s", b.Day, v, strings.Repeat("#", bar)), " ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
