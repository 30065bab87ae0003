// Package jobs models tracked job applications and the dashboard statistics
// derived from them.
package jobs

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
)

// Statuses lists every stage in pipeline order.
var Statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// DateLayout is the calendar format of DateApplied.
const DateLayout = "2006-01-02"

// Direction moves a job along the pipeline.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// NewID is swapped in tests.
var NewID = uuid.NewString

var validate = validator.New()

// Job is one tracked application.
type Job struct {
	ID              string `json:"id" validate:"required"`
	Company         string `json:"company" validate:"required"`
	Position        string `json:"position" validate:"required"`
	DateApplied     string `json:"dateApplied" validate:"required,datetime=2006-01-02"`
	Status          Status `json:"status" validate:"oneof=Applied Interviewing Offer Rejected"`
	Industry        string `json:"industry"`
	EstimatedSalary string `json:"estimatedSalary"`
}

// New returns an Applied job with a fresh id. An empty date means today.
func New(company, position, dateApplied, industry, salary string) Job {
	if dateApplied == "" {
		dateApplied = time.Now().Format(DateLayout)
	}
	return Job{
		ID:              NewID(),
		Company:         strings.TrimSpace(company),
		Position:        strings.TrimSpace(position),
		DateApplied:     dateApplied,
		Status:          StatusApplied,
		Industry:        strings.TrimSpace(industry),
		EstimatedSalary: strings.TrimSpace(salary),
	}
}

// Validate checks required fields, the date format and the status.
func (j Job) Validate() error {
	return validate.Struct(j)
}

// ParseStatus accepts a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (use Applied, Interviewing, Offer or Rejected)", s)
}

func (s Status) index() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Move returns j advanced one stage in dir. Moving past either end is a no-op.
func Move(j Job, dir Direction) Job {
	i := j.Status.index()
	if i < 0 {
		return j
	}
	next := i + int(dir)
	if next < 0 || next >= len(Statuses) {
		return j
	}
	j.Status = Statuses[next]
	return j
}

// Filter keeps jobs in industry. An empty industry keeps everything.
func Filter(list []Job, industry string) []Job {
	if industry == "" {
		return list
	}
	out := make([]Job, 0, len(list))
	for _, j := range list {
		if strings.EqualFold(j.Industry, industry) {
			out = append(out, j)
		}
	}
	return out
}

// ByStatus groups jobs by stage, keeping input order within each stage.
func ByStatus(list []Job) map[Status][]Job {
	out := make(map[Status][]Job, len(Statuses))
	for _, j := range list {
		out[j.Status] = append(out[j.Status], j)
	}
	return out
}

// Industries returns the distinct non-empty industries in first-seen order.
func Industries(list []Job) []string {
	seen := map[string]bool{}
	var out []string
	for _, j := range list {
		if j.Industry == "" || seen[j.Industry] {
			continue
		}
		seen[j.Industry] = true
		out = append(out, j.Industry)
	}
	return out
}

// Stats summarizes the dashboard counters.
type Stats struct {
	Total         int            `json:"total"`
	Counts        map[Status]int `json:"counts"`
	RejectionRate int            `json:"rejectionRate"`
}

// Summarize counts jobs per stage. RejectionRate is a whole percentage.
func Summarize(list []Job) Stats {
	s := Stats{Total: len(list), Counts: make(map[Status]int, len(Statuses))}
	for _, st := range Statuses {
		s.Counts[st] = 0
	}
	for _, j := range list {
		s.Counts[j.Status]++
	}
	if s.Total > 0 {
		s.RejectionRate = int(math.Round(float64(s.Counts[StatusRejected]) / float64(s.Total) * 100))
	}
	return s
}
