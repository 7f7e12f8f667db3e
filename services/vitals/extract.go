package vitals

import (
	"regexp"
	"strconv"
)

// Sample is a partial snapshot of clinical measurements pulled out of an
// assistant reply. Nil fields were not mentioned in the text.
type Sample struct {
	HeartRate       *int     `json:"heart_rate,omitempty"`
	Systolic        *int     `json:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty"`
	RespiratoryRate *int     `json:"respiratory_rate,omitempty"`
	SpO2            *int     `json:"spo2,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// Pattern tables per signal. Labels may appear with or without separators, in
// bullets or parentheses, and the extraction scans the whole text. The first
// pattern that matches wins for its field.
var (
	heartRatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:heart\s*rate|hr|pulse)\b[^0-9\n]{0,20}(\d{1,3})`),
		regexp.MustCompile(`(?i)(\d{1,3})\s*(?:bpm|beats\s*per\s*minute)\b`),
	}
	bloodPressurePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:blood\s*pressure|bp)\b[^0-9\n]{0,20}(\d{2,3})\s*/\s*(\d{2,3})`),
		regexp.MustCompile(`(?i)(\d{2,3})\s*/\s*(\d{2,3})\s*(?:mm\s*hg|mmhg)`),
	}
	respiratoryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:respiratory\s*rate|resp\.?\s*rate|respirations?|rr)\b[^0-9\n]{0,20}(\d{1,2})`),
		regexp.MustCompile(`(?i)(\d{1,2})\s*(?:breaths\s*(?:/|per)\s*min(?:ute)?)\b`),
	}
	spo2Patterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:spo2|spo₂|o2\s*sat(?:uration)?|oxygen\s*saturation|sats?)\b[^0-9\n]{0,20}(\d{1,3})`),
		regexp.MustCompile(`(?i)\bsaturat\w*\b[^0-9\n]{0,20}(\d{1,3})\s*%`),
	}
	temperaturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:temperature|temp)\b[^0-9\n]{0,20}(\d{2,3}(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)(\d{2,3}(?:\.\d+)?)\s*°\s*[cf]\b`),
	}

	scoreFractionPattern = regexp.MustCompile(`(?i)\bscore\b\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*(?:/|out\s+of)\s*(\d+(?:\.\d+)?)`)
	scorePercentPattern  = regexp.MustCompile(`(?i)\bscore\b\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*%`)
)

// ExtractVitals scans text for the five vital signs independently and returns
// nil only when no signal matched at all. Extraction is heuristic and
// best-effort; it never invents a value for an absent signal.
func ExtractVitals(text string) *Sample {
	var sample Sample
	found := false

	if v, ok := firstInt(heartRatePatterns, text); ok {
		sample.HeartRate = &v
		found = true
	}
	for _, re := range bloodPressurePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		sys, err1 := strconv.Atoi(m[1])
		dia, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		sample.Systolic = &sys
		sample.Diastolic = &dia
		found = true
		break
	}
	if v, ok := firstInt(respiratoryPatterns, text); ok {
		sample.RespiratoryRate = &v
		found = true
	}
	if v, ok := firstInt(spo2Patterns, text); ok {
		sample.SpO2 = &v
		found = true
	}
	for _, re := range temperaturePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		sample.Temperature = &v
		found = true
		break
	}

	if !found {
		return nil
	}
	return &sample
}

// ExtractScore recognizes "Score: X/Y", "Score: X out of Y" (normalized to
// 0-100) and "Score: X%" (taken verbatim).
func ExtractScore(text string) (float64, bool) {
	if m := scoreFractionPattern.FindStringSubmatch(text); m != nil {
		x, err1 := strconv.ParseFloat(m[1], 64)
		y, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil && y != 0 {
			return x / y * 100, true
		}
	}
	if m := scorePercentPattern.FindStringSubmatch(text); m != nil {
		x, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return x, true
		}
	}
	return 0, false
}

func firstInt(patterns []*regexp.Regexp, text string) (int, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}
