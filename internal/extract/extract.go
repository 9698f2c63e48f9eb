// Package extract turns free-text classified values into typed measurements.
// The raw string stays in the database for audit; extraction happens once at
// aggregation time and the result is a tagged variant, never an ad-hoc regex
// at the read site.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates the extraction variants
type Kind int

const (
	KindUnrecognized Kind = iota
	KindAmount
	KindTemperature
	KindBloodPressure
	KindOxygen
	KindSleepHours
)

// Value tagged extraction result. Raw always carries the original text.
type Value struct {
	Kind Kind
	Raw  string

	Amount    float64 // KindAmount
	Celsius   float64 // KindTemperature
	Systolic  int     // KindBloodPressure
	Diastolic int     // KindBloodPressure
	Percent   int     // KindOxygen
	Hours     float64 // KindSleepHours
}

var (
	amountRe     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	decimalRe    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	bloodPressRe = regexp.MustCompile(`(\d+)/(\d+)`)
	percentRe    = regexp.MustCompile(`(\d+)(?:%|\s*por\s*ciento)?`)
	sleepHoursRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:horas|hs)`)
)

// Amount extracts the first decimal number in the text, dot-separated.
// Used for financial totals; text without digits contributes nothing.
func Amount(text string) (float64, bool) {
	m := amountRe.FindString(text)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Temperature extracts a comma-or-dot decimal, normalized to a dot.
func Temperature(text string) (float64, string, bool) {
	m := decimalRe.FindString(text)
	if m == "" {
		return 0, "", false
	}
	normalized := strings.ReplaceAll(m, ",", ".")
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, "", false
	}
	return f, normalized, true
}

// BloodPressure extracts a systolic/diastolic pair in NN/NN form.
func BloodPressure(text string) (int, int, string, bool) {
	m := bloodPressRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, "", false
	}
	sys, err1 := strconv.Atoi(m[1])
	dia, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, "", false
	}
	return sys, dia, m[0], true
}

// Oxygen extracts an integer saturation percentage.
func Oxygen(text string) (int, bool) {
	m := percentRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	p, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return p, true
}

// SleepHours extracts hours slept from a duration phrase like "8 horas".
func SleepHours(text string) (float64, string, bool) {
	m := sleepHoursRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, "", false
	}
	normalized := strings.ReplaceAll(m[1], ",", ".")
	h, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, "", false
	}
	return h, m[1], true
}

// Parse classifies a physical-health value text by keyword presence and runs
// the matching type-specific extractor. Keyword checks are accent-tolerant
// because the classifier output is free text.
func Parse(text string) Value {
	lower := strings.ToLower(text)
	v := Value{Kind: KindUnrecognized, Raw: text}

	switch {
	case strings.Contains(lower, "temperatura"):
		if c, _, ok := Temperature(text); ok {
			return Value{Kind: KindTemperature, Raw: text, Celsius: c}
		}
	case strings.Contains(lower, "presión") || strings.Contains(lower, "presion"):
		if sys, dia, _, ok := BloodPressure(text); ok {
			return Value{Kind: KindBloodPressure, Raw: text, Systolic: sys, Diastolic: dia}
		}
	case strings.Contains(lower, "oxígeno") || strings.Contains(lower, "oxigeno"):
		if p, ok := Oxygen(text); ok {
			return Value{Kind: KindOxygen, Raw: text, Percent: p}
		}
	case strings.Contains(lower, "horas") || strings.Contains(lower, "hs"):
		if h, _, ok := SleepHours(text); ok {
			return Value{Kind: KindSleepHours, Raw: text, Hours: h}
		}
	}
	return v
}
