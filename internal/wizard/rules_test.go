package wizard_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"patentdesk/internal/domain"
	"patentdesk/internal/wizard"
)

func TestRequired(t *testing.T) {
	rule := wizard.Required("name", "Name")

	msg, ok := rule.Check(domain.FormData{"name": "   "})
	assert.False(t, ok)
	assert.Equal(t, "Name is required", msg)

	_, ok = rule.Check(domain.FormData{"name": "Ada"})
	assert.True(t, ok)
}

func TestPattern_SkipsEmptyValues(t *testing.T) {
	rule := wizard.Pattern("code", regexp.MustCompile(`^\d+$`), "digits only")

	_, ok := rule.Check(domain.FormData{})
	assert.True(t, ok)

	msg, ok := rule.Check(domain.FormData{"code": "12a"})
	assert.False(t, ok)
	assert.Equal(t, "digits only", msg)
}

func TestLength_CountsRunes(t *testing.T) {
	rule := wizard.Length("name", "Name", 2, 4)

	_, ok := rule.Check(domain.FormData{"name": "Şü"})
	assert.True(t, ok)

	msg, ok := rule.Check(domain.FormData{"name": "Ş"})
	assert.False(t, ok)
	assert.Equal(t, "Name must be at least 2 characters", msg)

	msg, ok = rule.Check(domain.FormData{"name": "abcde"})
	assert.False(t, ok)
	assert.Equal(t, "Name must be at most 4 characters", msg)
}

func TestRange(t *testing.T) {
	rule := wizard.Range("rate", "Rate", 0, 100)

	tests := []struct {
		name  string
		value any
		ok    bool
	}{
		{"float", 50.0, true},
		{"string number", "100", true},
		{"below", -1.0, false},
		{"above", "100.5", false},
		{"not a number", "lots", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := rule.Check(domain.FormData{"rate": tt.value})
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestPastDate(t *testing.T) {
	rule := wizard.PastDate("d", "Date")

	_, ok := rule.Check(domain.FormData{"d": "1990-05-17"})
	assert.True(t, ok)

	tomorrow := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
	msg, ok := rule.Check(domain.FormData{"d": tomorrow})
	assert.False(t, ok)
	assert.Equal(t, "Date must be in the past", msg)

	msg, ok = rule.Check(domain.FormData{"d": "17/05/1990"})
	assert.False(t, ok)
	assert.Contains(t, msg, "YYYY-MM-DD")
}

func TestFileCount(t *testing.T) {
	exact := wizard.FileCount("abstract", "abstract", 1, 1)
	msg, ok := exact.Check(domain.FormData{"abstract": []any{"a", "b"}})
	assert.False(t, ok)
	assert.Equal(t, "Exactly 1 abstract document(s) required", msg)

	bounded := wizard.FileCount("claims", "claims", 1, 2)
	_, ok = bounded.Check(domain.FormData{"claims": []any{map[string]any{"id": "x"}}})
	assert.True(t, ok)

	msg, ok = bounded.Check(domain.FormData{"claims": []any{"a", "b", "c"}})
	assert.False(t, ok)
	assert.Equal(t, "At most 2 claims document(s) allowed", msg)
}

func TestWhen(t *testing.T) {
	isOn := func(f domain.FormData) bool { return f.Bool("on") }
	rule := wizard.When(isOn, wizard.Required("x", "X"))

	_, ok := rule.Check(domain.FormData{"on": false})
	assert.True(t, ok)

	_, ok = rule.Check(domain.FormData{"on": "true"})
	assert.False(t, ok)
	assert.Equal(t, "x", rule.Field())
}

func TestEvaluate_KeepsFirstFailurePerField(t *testing.T) {
	rules := []wizard.Rule{
		wizard.Required("name", "Name"),
		wizard.Length("name", "Name", 2, 5),
		wizard.Required("email", "Email"),
	}

	res := wizard.Evaluate(domain.FormData{"email": "a@b.co"}, rules)

	assert.False(t, res.Valid)
	assert.Equal(t, map[string]string{"name": "Name is required"}, res.Errors)

	res = wizard.Evaluate(domain.FormData{"name": "Ada", "email": "a@b.co"}, rules)
	assert.True(t, res.Valid)
	assert.Nil(t, res.Errors)
}
