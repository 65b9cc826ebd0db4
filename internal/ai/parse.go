package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RawFinding is one issue as decoded from the backend response. The line
// number is kept as an unvalidated token; coercion happens at mapping
// time so a bad token can be dropped per finding instead of per hunk.
type RawFinding struct {
	LineNumber string
	Comment    string
}

// Matches a whole response wrapped in a fenced code block, with an
// optional json language tag in any case.
var fenceRe = regexp.MustCompile("(?is)^```(?:json)?\\s*(.*?)\\s*```$")

type rawReview struct {
	LineNumber    any    `json:"lineNumber"`
	ReviewComment string `json:"reviewComment"`
}

func (r rawReview) lineToken() string {
	switch v := r.LineNumber.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseFindings decodes the declared response contract
// {"reviews": [{"lineNumber": ..., "reviewComment": ...}]} from backend
// output. A code-fence wrapper is stripped first. A JSON parse failure
// is an error (the hunk has no usable result); a missing or non-array
// "reviews" field after a successful parse means zero findings.
func ParseFindings(content string) ([]RawFinding, error) {

	body := stripCodeFence(strings.TrimSpace(content))

	var envelope struct {
		Reviews json.RawMessage `json:"reviews"`
	}

	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, fmt.Errorf("decode review response: %w", err)
	}

	if len(envelope.Reviews) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(envelope.Reviews))
	dec.UseNumber()

	var raw []rawReview
	if err := dec.Decode(&raw); err != nil {
		// "reviews" present but not an array: zero findings
		return nil, nil
	}

	findings := make([]RawFinding, 0, len(raw))
	for _, r := range raw {
		findings = append(findings, RawFinding{
			LineNumber: r.lineToken(),
			Comment:    r.ReviewComment,
		})
	}

	return findings, nil
}

func stripCodeFence(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
