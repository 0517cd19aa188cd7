// Package validation gates every expense create and edit with the
// submission-shape rules that run before split allocation.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmynk/splitsmart/internal/apperrors"
	"github.com/mmynk/splitsmart/internal/money"
)

const (
	minDescriptionLen = 2
	maxDescriptionLen = 200

	maxTags       = 10
	maxTagLen     = 30
	maxTagsLength = 200

	pastYears   = 10
	futureYears = 1
)

var suspiciousContent = regexp.MustCompile(`(?i)<script|javascript:|data:|vbscript:`)

// Draft is an expense as submitted, before currency conversion and split
// allocation.
type Draft struct {
	Description      string
	OriginalAmount   float64
	OriginalCurrency string
	// Date is YYYY-MM-DD or RFC 3339.
	Date    string
	GroupID string
	PaidBy  string
	// Participants are the user IDs selected in the split, before allocation.
	Participants []string
	Tags         []string
}

// ValidatedDraft is a Draft that passed every rule, with normalized fields.
type ValidatedDraft struct {
	Description      string
	OriginalAmount   float64
	OriginalCurrency string
	Date             time.Time
	GroupID          string
	PaidBy           string
	Participants     []string
	Tags             []string
}

// ValidateExpenseSubmission applies the submission rules in order and
// returns the first failure. now anchors the date window.
func ValidateExpenseSubmission(d Draft, now time.Time) (*ValidatedDraft, error) {
	if err := ValidateDescription(d.Description); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(d.OriginalCurrency))
	if !money.IsSupported(currency) {
		return nil, apperrors.New(apperrors.UnsupportedCurrency, "originalCurrency",
			"Currency is not supported")
	}

	if !(d.OriginalAmount > 0) {
		return nil, apperrors.New(apperrors.InvalidAmount, "originalAmount",
			"Amount must be greater than zero")
	}
	amount, err := money.ValidateAmount(d.OriginalAmount, currency)
	if err != nil {
		return nil, withField(err, "originalAmount")
	}

	date, err := ValidateDate(d.Date, now)
	if err != nil {
		return nil, err
	}

	groupID := strings.TrimSpace(d.GroupID)
	if groupID == "" {
		return nil, apperrors.New(apperrors.InvalidGroup, "groupId", "Please select a group")
	}

	if len(nonEmpty(d.Participants)) == 0 {
		return nil, apperrors.New(apperrors.NoParticipants, "participants",
			"At least one participant is required")
	}

	tags, err := ValidateTags(d.Tags)
	if err != nil {
		return nil, err
	}

	return &ValidatedDraft{
		Description:      d.Description,
		OriginalAmount:   amount,
		OriginalCurrency: currency,
		Date:             date,
		GroupID:          groupID,
		PaidBy:           strings.TrimSpace(d.PaidBy),
		Participants:     nonEmpty(d.Participants),
		Tags:             tags,
	}, nil
}

// ValidateDescription checks length and rejects script or URI-scheme content.
func ValidateDescription(desc string) error {
	n := utf8.RuneCountInString(desc)
	switch {
	case n == 0:
		return apperrors.New(apperrors.InvalidDescription, "description", "Description is required")
	case n < minDescriptionLen:
		return apperrors.New(apperrors.InvalidDescription, "description",
			"Description must be at least %d characters", minDescriptionLen)
	case n > maxDescriptionLen:
		return apperrors.New(apperrors.InvalidDescription, "description",
			"Description cannot exceed %d characters", maxDescriptionLen)
	case suspiciousContent.MatchString(desc):
		return apperrors.New(apperrors.InvalidDescription, "description",
			"Description contains invalid content")
	}
	return nil
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ValidateDate parses s and checks it lies within ten years before and one
// year after now.
func ValidateDate(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, apperrors.New(apperrors.InvalidDate, "date", "Date is required")
	}
	date, ok := ParseDate(s)
	if !ok {
		return time.Time{}, apperrors.New(apperrors.InvalidDate, "date", "Please enter a valid date")
	}
	if date.Before(now.AddDate(-pastYears, 0, 0)) {
		return time.Time{}, apperrors.New(apperrors.InvalidDate, "date",
			"Date cannot be more than %d years in the past", pastYears)
	}
	if date.After(now.AddDate(futureYears, 0, 0)) {
		return time.Time{}, apperrors.New(apperrors.InvalidDate, "date",
			"Date cannot be more than %d year in the future", futureYears)
	}
	return date, nil
}

// ValidateTags trims tags, drops blanks and enforces the count and length
// limits. The total length is that of the comma-joined list. The returned
// slice is never nil.
func ValidateTags(tags []string) ([]string, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}

	if utf8.RuneCountInString(strings.Join(clean, ",")) > maxTagsLength {
		return nil, apperrors.New(apperrors.TagTooLong, "tags",
			"Tags cannot exceed %d characters", maxTagsLength)
	}
	if len(clean) > maxTags {
		return nil, apperrors.New(apperrors.TooManyTags, "tags",
			"Cannot have more than %d tags", maxTags)
	}
	for _, t := range clean {
		if utf8.RuneCountInString(t) > maxTagLen {
			return nil, apperrors.New(apperrors.TagTooLong, "tags",
				"Each tag cannot exceed %d characters", maxTagLen)
		}
	}
	return clean, nil
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func withField(err error, field string) error {
	if e, ok := err.(*apperrors.Error); ok {
		cp := *e
		cp.Field = field
		return &cp
	}
	return err
}
