package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"company-news/internal/domain/news"

	"github.com/araddon/dateparse"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const (
	msgInteger  = "A valid integer is required."
	msgDatetime = "Datetime has wrong format. Use ISO 8601."
	msgRequired = "This field is required."
	msgSlug     = "Enter a valid slug consisting of lowercase letters, numbers or hyphens."
)

func msgMinValue(n int) string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %d.", n)
}
func msgMaxValue(n int) string {
	return fmt.Sprintf("Ensure this value is less than or equal to %d.", n)
}
func msgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// intField parses raw into an int, falling back to def when raw is blank.
func intField(v *ValidationError, field, raw string, def int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(field, msgInteger)
		return 0, false
	}
	return n, true
}

// boundedInt rejects values outside [min, max]. max <= 0 means no upper bound.
func boundedInt(v *ValidationError, field, raw string, def, min, max int) int {
	n, ok := intField(v, field, raw, def)
	if !ok {
		return def
	}
	if n < min {
		v.Add(field, msgMinValue(min))
		return def
	}
	if max > 0 && n > max {
		v.Add(field, msgMaxValue(max))
		return def
	}
	return n
}

func maxLen(v *ValidationError, field, value string, n int) string {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > n {
		v.Add(field, msgMaxLength(n))
	}
	return value
}

func sentimentField(v *ValidationError, field, raw string) news.Sentiment {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	s, err := news.ParseSentiment(raw)
	if err != nil {
		v.Add(field, fmt.Sprintf("%q is not a valid choice.", raw))
		return ""
	}
	return s
}

func dateField(v *ValidationError, field, raw string) *time.Time {
	t, ok := parseTime(raw)
	if !ok {
		v.Add(field, msgDatetime)
		return nil
	}
	return t
}

// parseTime returns nil, true for blank input.
func parseTime(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, false
	}
	t = t.UTC()
	return &t, true
}

func slugField(v *ValidationError, field, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		v.Add(field, msgRequired)
		return ""
	}
	if !slugPattern.MatchString(raw) {
		v.Add(field, msgSlug)
	}
	return raw
}
