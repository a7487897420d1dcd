package wizard

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"patentdesk/internal/domain"
)

// Rule checks one field of the form. A failing rule returns the message shown
// next to the field.
type Rule interface {
	Field() string
	Check(form domain.FormData) (msg string, ok bool)
}

type ruleFunc struct {
	field string
	check func(domain.FormData) (string, bool)
}

func (r *ruleFunc) Field() string { return r.field }

func (r *ruleFunc) Check(form domain.FormData) (string, bool) { return r.check(form) }

func newRule(field string, check func(domain.FormData) (string, bool)) Rule {
	return &ruleFunc{field: field, check: check}
}

// Required fails when the field is absent or blank.
func Required(field, label string) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		if form.String(field) == "" {
			return fmt.Sprintf("%s is required", label), false
		}
		return "", true
	})
}

// Pattern fails when a non-empty value does not match re.
func Pattern(field string, re *regexp.Regexp, msg string) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		v := form.String(field)
		if v == "" || re.MatchString(v) {
			return "", true
		}
		return msg, false
	})
}

// Length bounds the rune count of a non-empty value. max <= 0 means unbounded.
func Length(field, label string, minLen, maxLen int) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		v := form.String(field)
		if v == "" {
			return "", true
		}
		n := utf8.RuneCountInString(v)
		if n < minLen {
			return fmt.Sprintf("%s must be at least %d characters", label, minLen), false
		}
		if maxLen > 0 && n > maxLen {
			return fmt.Sprintf("%s must be at most %d characters", label, maxLen), false
		}
		return "", true
	})
}

// Range requires a numeric value within [minVal, maxVal].
func Range(field, label string, minVal, maxVal float64) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		if form.String(field) == "" {
			return "", true
		}
		n, ok := form.Float(field)
		if !ok {
			return fmt.Sprintf("%s must be a number", label), false
		}
		if n < minVal || n > maxVal {
			return fmt.Sprintf("%s must be between %g and %g", label, minVal, maxVal), false
		}
		return "", true
	})
}

// Checked requires a checkbox-like field to be true.
func Checked(field, msg string) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		if !form.Bool(field) {
			return msg, false
		}
		return "", true
	})
}

// PastDate requires a YYYY-MM-DD value strictly before today.
func PastDate(field, label string) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		v := form.String(field)
		if v == "" {
			return "", true
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label), false
		}
		if !t.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
			return fmt.Sprintf("%s must be in the past", label), false
		}
		return "", true
	})
}

// FileCount bounds the number of document IDs in a list field.
func FileCount(field, label string, minCount, maxCount int) Rule {
	return newRule(field, func(form domain.FormData) (string, bool) {
		n := len(form.List(field))
		switch {
		case minCount == maxCount && n != minCount:
			return fmt.Sprintf("Exactly %d %s document(s) required", minCount, label), false
		case n < minCount:
			return fmt.Sprintf("At least %d %s document(s) required", minCount, label), false
		case n > maxCount:
			return fmt.Sprintf("At most %d %s document(s) allowed", maxCount, label), false
		}
		return "", true
	})
}

// When applies rule only if cond holds for the form.
func When(cond func(domain.FormData) bool, rule Rule) Rule {
	return newRule(rule.Field(), func(form domain.FormData) (string, bool) {
		if !cond(form) {
			return "", true
		}
		return rule.Check(form)
	})
}

// Result is the outcome of validating one step.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Evaluate runs rules in order, keeping the first failure per field.
func Evaluate(form domain.FormData, rules []Rule) Result {
	errs := make(map[string]string)
	for _, r := range rules {
		if _, failed := errs[r.Field()]; failed {
			continue
		}
		if msg, ok := r.Check(form); !ok {
			errs[r.Field()] = msg
		}
	}
	if len(errs) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Errors: errs}
}
