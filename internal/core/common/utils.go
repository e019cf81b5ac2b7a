package common

import (
	"regexp"
	"strings"
)

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_+-]*")
	closingFence = regexp.MustCompile("```$")
)

// StripCodeFence removes a markdown code fence that LLMs like to wrap around
// structured output: a leading ``` with an optional language hint and a
// trailing ```. Either marker may be missing. Text without fences is only
// trimmed, so applying it twice gives the same result as applying it once.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = openingFence.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = closingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
