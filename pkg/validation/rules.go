package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
)

var compareRule = regexp.MustCompile(`([\w.\[\]]+)\s*(>=|<=)\s*(\d+)`)

// rules evaluates the textual rules of a validation step:
//
//	required: <path>
//	required_array_min: <array>, <count>
//	xor: <path> || <path> [|| ...]
//	<path> >= <n> / <path> <= <n>
//
// Unrecognised rules are ignored.
func (v *Validator) rules(rules []string, set answers.Set) []Issue {
	var issues []Issue
	for _, raw := range rules {
		rule := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(rule, "required_array_min:"):
			issues = append(issues, arrayMin(strings.TrimPrefix(rule, "required_array_min:"), set)...)
		case strings.HasPrefix(rule, "required:"):
			issues = append(issues, v.required([]string{strings.TrimPrefix(rule, "required:")}, set)...)
		case strings.HasPrefix(rule, "xor:"):
			issues = append(issues, xor(strings.TrimPrefix(rule, "xor:"), set)...)
		case strings.Contains(rule, ">=") || strings.Contains(rule, "<="):
			issues = append(issues, compare(rule, set)...)
		}
	}
	return issues
}

func (v *Validator) required(paths []string, set answers.Set) []Issue {
	var issues []Issue
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		if blank(set.Lookup(path)) {
			issues = append(issues, Issue{
				Field:   path,
				Message: fmt.Sprintf("Поле '%s' обязательно для заполнения", path),
			})
		}
	}
	return issues
}

func arrayMin(args string, set answers.Set) []Issue {
	name, countText, _ := strings.Cut(args, ",")
	name = strings.TrimSpace(name)
	want := 1
	if n, err := strconv.Atoi(strings.TrimSpace(countText)); err == nil {
		want = n
	}
	if checkCount(listOf(set.Lookup(name)), &want, nil) == "" {
		return nil
	}
	return []Issue{{
		Field:   name,
		Message: fmt.Sprintf("Минимум %d элемент(ов) требуется для '%s'", want, name),
	}}
}

func xor(args string, set answers.Set) []Issue {
	parts := strings.Split(args, "||")
	conditions := make([]string, 0, len(parts))
	satisfied := 0
	for _, part := range parts {
		path := strings.TrimSpace(part)
		conditions = append(conditions, path)
		if answers.Truthy(set.Lookup(path)) {
			satisfied++
		}
	}
	if satisfied == 1 {
		return nil
	}
	return []Issue{{
		Field:   strings.Join(conditions, " или "),
		Message: "Должен быть выбран ровно один из вариантов",
	}}
}

func compare(rule string, set answers.Set) []Issue {
	m := compareRule.FindStringSubmatch(rule)
	if m == nil {
		return nil
	}
	path, op := m[1], m[2]
	limit, _ := strconv.ParseFloat(m[3], 64)
	actual, ok := answers.Number(set.Lookup(path))
	if !ok {
		// Absent or non-numeric values are left to required rules.
		return nil
	}
	switch {
	case op == ">=" && actual < limit:
		return []Issue{{Field: path, Message: fmt.Sprintf("Значение должно быть не менее %s", m[3])}}
	case op == "<=" && actual > limit:
		return []Issue{{Field: path, Message: fmt.Sprintf("Значение должно быть не более %s", m[3])}}
	}
	return nil
}
