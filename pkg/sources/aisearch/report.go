package aisearch

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
)

// FlexFloat tolerates numbers that arrive as JSON strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// FlexInt64 tolerates integers that arrive as JSON strings or floats.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexInt64(v)
	return nil
}

// Report is the structured answer the assistant must produce.
type Report struct {
	Status  string         `json:"status"`
	Results []ReportResult `json:"results"`
}

// ReportResult is one candidate profile in the report.
type ReportResult struct {
	Platform    string    `json:"platform"`
	URL         string    `json:"url"`
	Username    string    `json:"username"`
	Confidence  FlexFloat `json:"confidence_score"`
	Verified    bool      `json:"verified"`
	Followers   FlexInt64 `json:"follower_count"`
	Description string    `json:"description"`
}

// Found reports whether the assistant claims a match.
func (r Report) Found() bool {
	return r.Status == "found" && len(r.Results) > 0
}

var (
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	jsonRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseReport applies the parsing ladder: strip markdown fences, decode,
// and as a last resort pull the first JSON object out of surrounding
// prose. Anything else violates the contract.
func ParseReport(raw string) (*Report, error) {
	text := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var report Report
	if err := json.Unmarshal([]byte(text), &report); err == nil {
		return &report, nil
	}

	if block := jsonRe.FindString(text); block != "" {
		if err := json.Unmarshal([]byte(block), &report); err == nil {
			return &report, nil
		}
	}
	return nil, rserrors.Wrap(rserrors.ErrContractViolation, "assistant answer is not the agreed JSON")
}
