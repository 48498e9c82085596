package introspect

import (
	"github.com/viant/tagly/format/text"
	"strconv"
	"strings"
	"unicode"
)

// MemberID returns lower camel member identifier
func MemberID(name string) string {
	if name == "" {
		return name
	}
	return text.DetectCaseFormat(name).To(text.CaseFormatLowerCamel).Format(name)
}

// ParamID returns action parameter identifier
func ParamID(actionID string, index int) string {
	return actionID + "#" + strconv.Itoa(index)
}

// ParamKey returns parameter annotation key
func ParamKey(actionName string, index int) string {
	return actionName + "#" + strconv.Itoa(index)
}

// FriendlyName returns space separated title case name, i.e. FirstName -> First Name
func FriendlyName(name string) string {
	if name == "" {
		return name
	}
	snake := text.DetectCaseFormat(name).To(text.CaseFormatLowerUnderscore).Format(name)
	words := strings.Split(snake, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
