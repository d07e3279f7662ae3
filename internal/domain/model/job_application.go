// Package model defines the core data types shared by the job application tracker.
package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxTextLen is the maximum allowed length for company and role in characters.
	maxTextLen = 255

	// DateLayout is the calendar date format accepted and rendered for applied dates.
	DateLayout = "2006-01-02"
)

// Status is the lifecycle stage of a job application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// ErrInvalidStatus is returned by ParseStatus for values outside the enumeration.
var ErrInvalidStatus = errors.New("status must be one of applied, interview, offer, rejected")

// ParseStatus normalizes s (trimmed, lowercased) and checks enum membership.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st.Valid() {
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Label returns the capitalized display form.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseAppliedDate parses a calendar date. RFC 3339 timestamps are accepted and
// truncated to their date. An empty string yields nil.
func ParseAppliedDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return &d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("date %q is not a valid calendar date", s)
	}
	d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return &d, nil
}

// JobApplication is a persisted job application record owned by one user.
type JobApplication struct {
	ID            string     `json:"id"            db:"id"`
	UserID        string     `json:"userId"        db:"user_id"`
	CompanyName   string     `json:"companyName"   db:"company_name"`
	Role          string     `json:"role"          db:"role"`
	Status        Status     `json:"status"        db:"status"`
	DateApplied   *time.Time `json:"dateApplied"   db:"date_applied"`
	ScreenshotURL string     `json:"screenshotUrl" db:"screenshot_url"`
	CreatedAt     time.Time  `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt"     db:"updated_at"`
}

// DateLabel renders the applied date or an empty string.
func (j JobApplication) DateLabel() string {
	if j.DateApplied == nil {
		return ""
	}
	return j.DateApplied.Format(DateLayout)
}

// CreateJobApplicationRequest is the body accepted by the create endpoint.
type CreateJobApplicationRequest struct {
	Company       string `json:"company"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	Date          string `json:"date"`
	ScreenshotURL string `json:"screenshotUrl"`
}

// FieldErrors flags which submitted fields failed validation.
type FieldErrors struct {
	Company    bool `json:"company,omitempty"`
	Role       bool `json:"role,omitempty"`
	Status     bool `json:"status,omitempty"`
	Date       bool `json:"date,omitempty"`
	Screenshot bool `json:"screenshot,omitempty"`
}

// Any reports whether at least one field is flagged.
func (f FieldErrors) Any() bool {
	return f.Company || f.Role || f.Status || f.Date || f.Screenshot
}

// ValidationError carries the per-field flags and one consolidated message.
type ValidationError struct {
	Fields  FieldErrors
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks every field and reports all violations at once.
// Status is compared case-insensitively and date must be a calendar date.
func (r *CreateJobApplicationRequest) Validate() error {
	var (
		fields   FieldErrors
		problems []string
	)

	if strings.TrimSpace(r.Company) == "" {
		fields.Company = true
		problems = append(problems, "company is required")
	} else if utf8.RuneCountInString(r.Company) > maxTextLen {
		fields.Company = true
		problems = append(problems, "company cannot exceed 255 characters")
	}

	if strings.TrimSpace(r.Role) == "" {
		fields.Role = true
		problems = append(problems, "role is required")
	} else if utf8.RuneCountInString(r.Role) > maxTextLen {
		fields.Role = true
		problems = append(problems, "role cannot exceed 255 characters")
	}

	if strings.TrimSpace(r.Status) == "" {
		fields.Status = true
		problems = append(problems, "status is required")
	} else if _, err := ParseStatus(r.Status); err != nil {
		fields.Status = true
		problems = append(problems, err.Error())
	}

	if _, err := ParseAppliedDate(r.Date); err != nil {
		fields.Date = true
		problems = append(problems, err.Error())
	}

	if strings.TrimSpace(r.ScreenshotURL) == "" {
		fields.Screenshot = true
		problems = append(problems, "a screenshot must be uploaded")
	} else if !isHTTPURL(r.ScreenshotURL) {
		fields.Screenshot = true
		problems = append(problems, "screenshot URL must be an absolute http(s) URL")
	}

	if !fields.Any() {
		return nil
	}
	return &ValidationError{Fields: fields, Message: strings.Join(problems, "; ")}
}

// Normalize validates r and converts it into insert parameters for userID.
func (r *CreateJobApplicationRequest) Normalize(userID string) (NewJobApplication, error) {
	if err := r.Validate(); err != nil {
		return NewJobApplication{}, err
	}
	status, _ := ParseStatus(r.Status)
	date, _ := ParseAppliedDate(r.Date)
	return NewJobApplication{
		UserID:        userID,
		CompanyName:   strings.TrimSpace(r.Company),
		Role:          strings.TrimSpace(r.Role),
		Status:        status,
		DateApplied:   date,
		ScreenshotURL: strings.TrimSpace(r.ScreenshotURL),
	}, nil
}

// NewJobApplication holds validated values ready for insertion.
type NewJobApplication struct {
	UserID        string
	CompanyName   string
	Role          string
	Status        Status
	DateApplied   *time.Time
	ScreenshotURL string
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SortOrder orders dashboard results by applied date.
type SortOrder string

const (
	SortDateAsc  SortOrder = "date_asc"
	SortDateDesc SortOrder = "date_desc"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to date_desc.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(strings.TrimSpace(s))) == SortDateAsc {
		return SortDateAsc
	}
	return SortDateDesc
}

// JobApplicationListOptions scopes a list query to one user.
type JobApplicationListOptions struct {
	UserID string
	Status *Status
	Sort   SortOrder
}

// ListOptionsFromQuery builds list options from raw query values. Unknown
// statuses are ignored.
func ListOptionsFromQuery(userID, status, sort string) JobApplicationListOptions {
	opts := JobApplicationListOptions{UserID: userID, Sort: ParseSortOrder(sort)}
	if st, err := ParseStatus(status); err == nil {
		opts.Status = &st
	}
	return opts
}
