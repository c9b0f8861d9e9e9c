package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Draft holds buyer input for one checkout attempt. It is never
// persisted; it exists only between form entry and submission.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ValidationError reports per-field problems with a draft.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid checkout form: " + strings.Join(keys, ", ")
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10,}$`)
)

// Validate checks the draft's required fields and shapes. A nil return
// means the draft is submittable.
func (d Draft) Validate() *ValidationError {
	fields := make(map[string]string)

	required := []struct {
		name  string
		value string
	}{
		{"name", d.Name},
		{"email", d.Email},
		{"phone", d.Phone},
		{"address", d.Address},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields[f.name] = fmt.Sprintf("please fill in your %s", f.name)
		}
	}

	if _, missing := fields["email"]; !missing && !emailPattern.MatchString(d.Email) {
		fields["email"] = "please enter a valid email address"
	}
	if _, missing := fields["phone"]; !missing && !phonePattern.MatchString(d.Phone) {
		fields["phone"] = "please enter a valid phone number (min. 10 digits)"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
