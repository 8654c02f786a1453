package filters

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ISO8601 stands for the default layouts of a temporal field in InputFormats.
const ISO8601 = "iso-8601"

type temporalFormat struct {
	noun    string
	layouts []string
	human   string
}

var (
	dateFormat = temporalFormat{
		noun:    "Date",
		layouts: []string{"2006-01-02"},
		human:   "YYYY-MM-DD",
	}
	dateTimeFormat = temporalFormat{
		noun: "Datetime",
		layouts: []string{
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02T15:04",
			"2006-01-02 15:04:05Z07:00",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
		},
		human: "YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]",
	}
	timeFormat = temporalFormat{
		noun:    "Time",
		layouts: []string{"15:04:05", "15:04"},
		human:   "hh:mm[:ss[.uuuuuu]]",
	}
)

func validateDate(_ context.Context, f *Field, raw any) (any, error) {
	if t, ok := raw.(time.Time); ok {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return parseTemporal(dateFormat, f.formats, raw)
}

func validateDateTime(_ context.Context, f *Field, raw any) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return t, nil
	}
	return parseTemporal(dateTimeFormat, f.formats, raw)
}

func validateTime(_ context.Context, f *Field, raw any) (any, error) {
	if t, ok := raw.(time.Time); ok {
		return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return parseTemporal(timeFormat, f.formats, raw)
}

// parseTemporal tries the layouts in order; the first match wins.
func parseTemporal(tf temporalFormat, custom []string, raw any) (any, error) {
	formats := custom
	if len(formats) == 0 {
		formats = []string{ISO8601}
	}

	s, ok := raw.(string)
	if ok {
		s = strings.TrimSpace(s)
		for _, format := range formats {
			layouts := []string{format}
			if format == ISO8601 {
				layouts = tf.layouts
			}
			for _, layout := range layouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, nil
				}
			}
		}
	}

	human := make([]string, 0, len(formats))
	for _, format := range formats {
		if format == ISO8601 {
			format = tf.human
		}
		human = append(human, format)
	}
	return nil, Invalid(fmt.Sprintf("%s has wrong format. Use one of these formats instead: %s.",
		tf.noun, strings.Join(human, ", ")))
}

func validateDuration(_ context.Context, _ *Field, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Duration:
		return v, nil
	case string:
		if d, ok := parseDuration(strings.TrimSpace(v)); ok {
			return d, nil
		}
	}
	return nil, Invalid("Duration has wrong format. Use one of these formats instead: [DD] [HH:[MM:]]ss[.uuuuuu].")
}

// parseDuration reads "[DD] [HH:[MM:]]ss[.uuuuuu]", falling back to Go
// notation ("1h30m").
func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}

	var days int64
	rest := s
	if head, tail, ok := strings.Cut(s, " "); ok {
		n, err := strconv.ParseInt(head, 10, 64)
		if err != nil {
			return 0, false
		}
		days = n
		rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(tail), "days,"), "day,"))
	}

	parts := strings.Split(rest, ":")
	if len(parts) > 3 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(strings.Replace(parts[len(parts)-1], ",", ".", 1), 64)
	if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		if days == 0 && len(parts) == 1 {
			d, goErr := time.ParseDuration(s)
			return d, goErr == nil
		}
		return 0, false
	}

	// The float sum only bounds the result; the value is summed exactly
	seconds := float64(days)*86400 + secs
	units := []time.Duration{time.Minute, time.Hour}
	counts := make([]uint64, 0, 2)
	for i, j := len(parts)-2, 0; i >= 0; i, j = i-1, j+1 {
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return 0, false
		}
		seconds += float64(n) * units[j].Seconds()
		counts = append(counts, n)
	}
	if math.Abs(seconds) >= maxDurationSeconds {
		return 0, false
	}

	total := time.Duration(days)*24*time.Hour + time.Duration(secs*float64(time.Second))
	for j, n := range counts {
		total += time.Duration(n) * units[j]
	}
	return total, true
}

// maxDurationSeconds is the span of time.Duration.
var maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)
