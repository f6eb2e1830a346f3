package ui

import (
	"strings"

	"github.com/spelunkhq/spelunk/internal/splunk"
)

const sparklineBuckets = 40

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// timeBuckets histograms event _time values into a fixed number of bins
// between the earliest and latest timestamp. Events without a parseable
// _time are skipped; a single distinct timestamp yields no histogram.
func timeBuckets(events []splunk.Event, buckets int) []int {
	if buckets <= 0 {
		return nil
	}
	var stamps []int64
	for _, ev := range events {
		if t, ok := ev.Time(); ok {
			stamps = append(stamps, t.Unix())
		}
	}
	if len(stamps) == 0 {
		return nil
	}

	min, max := stamps[0], stamps[0]
	for _, s := range stamps[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max == min {
		return nil
	}

	counts := make([]int, buckets)
	span := float64(max - min)
	for _, s := range stamps {
		idx := int(float64(s-min) / span * float64(buckets-1))
		if idx >= 0 && idx < buckets {
			counts[idx]++
		}
	}
	return counts
}

// renderSparkline draws bucket counts as a single row of block glyphs
// scaled to the tallest bucket.
func renderSparkline(counts []int, width int) string {
	if len(counts) == 0 || width <= 0 {
		return ""
	}
	if len(counts) > width {
		counts = counts[:width]
	}
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}
	if peak == 0 {
		return ""
	}

	var b strings.Builder
	for _, c := range counts {
		if c == 0 {
			b.WriteRune(' ')
			continue
		}
		idx := (c*len(sparkRunes) - 1) / peak
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
