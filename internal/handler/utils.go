package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ToStr renders a cell value; nil and nil pointers become "".
func ToStr(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StrPtr returns nil for the empty string.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var leadingIndent = regexp.MustCompile(`(?m)^[ \t]+`)

// FormatStr strips the indentation of every line and trims the result.
func FormatStr(message string) string {
	return strings.TrimSpace(leadingIndent.ReplaceAllString(message, ""))
}
