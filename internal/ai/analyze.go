package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AnalysisResult is the structured feedback returned by a provider.
type AnalysisResult struct {
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	Suggestions      []string `json:"suggestions"`
	Recommendations  []string `json:"recommendations"`
	Score            float64  `json:"score"`
	DetailedFeedback string   `json:"detailedFeedback"`
}

// Grade buckets a score the way results are colour-coded: strong, fair or weak.
func Grade(score float64) string {
	switch {
	case score >= 80:
		return "strong"
	case score >= 60:
		return "fair"
	}
	return "weak"
}

const promptTemplate = `
If the information is not a personal/professional/educational resume about an individual/corporate personality, then show a message to change the document to a valid resume. So only a real resume will be accepted and go to the next steps.

Please analyze the following resume and provide feedback in this JSON format:
{
  "strengths": ["strength1", "strength2", "strength3"],
  "weaknesses": ["weakness1", "weakness2", "weakness3"],
  "suggestions": ["suggestion1", "suggestion2", "suggestion3"],
  "recommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "score": (a number between 0-100),
  "detailedFeedback": "detailed paragraph of feedback"
}

Resume content:
%s
`

// BuildPrompt wraps resume text in the analysis instructions.
func BuildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

// Analyzer runs resume analysis against the active provider.
type Analyzer struct {
	Timeout    time.Duration
	NewRuntime func(cfg Config, timeout time.Duration) (Runtime, error)
}

// NewAnalyzer returns an Analyzer using the registered runtimes.
func NewAnalyzer(timeout time.Duration) *Analyzer {
	return &Analyzer{Timeout: timeout, NewRuntime: NewRuntime}
}

// Analyze sends content to the active provider of cfgs and parses the reply.
// It fails fast with ErrNoContent or *MissingKeyError before any network call.
func (a *Analyzer) Analyze(ctx context.Context, cfgs Configurations, content string) (*AnalysisResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}
	pc, ok := cfgs.Get(cfgs.ActiveProvider)
	if !ok {
		return nil, fmt.Errorf("unknown active provider %q", cfgs.ActiveProvider)
	}
	if pc.APIKey == "" {
		return nil, &MissingKeyError{Provider: pc.Provider}
	}
	newRuntime := a.NewRuntime
	if newRuntime == nil {
		newRuntime = NewRuntime
	}
	rt, err := newRuntime(pc, a.Timeout)
	if err != nil {
		return nil, err
	}
	raw, err := rt.Complete(ctx, BuildPrompt(content))
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}
	res, err := ParseResult(raw)
	if err != nil {
		var rerr *ResponseError
		if errors.As(err, &rerr) {
			rerr.Provider = pc.Provider
		}
		return nil, err
	}
	return res, nil
}

// ParseResult extracts the JSON object from a completion, checks it against the
// analysis schema and decodes it.
func ParseResult(raw string) (*AnalysisResult, error) {
	text := ExtractJSON(raw)
	if err := validateAnalysis(text); err != nil {
		return nil, err
	}
	var res AnalysisResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, &ResponseError{Reason: "decode analysis", Err: err}
	}
	if res.Recommendations == nil {
		res.Recommendations = []string{}
	}
	return &res, nil
}

var (
	fencedJSON    = regexp.MustCompile("(?s)```json\\n(.*?)\\n```")
	fencedGeneric = regexp.MustCompile("(?s)```\\n(.*?)\\n```")
)

// ExtractJSON pulls a JSON object out of model output that may be wrapped in
// markdown fences or surrounded by prose.
func ExtractJSON(raw string) string {
	candidate := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else if m := fencedGeneric.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	}
	if json.Valid([]byte(candidate)) {
		return candidate
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return candidate
}
