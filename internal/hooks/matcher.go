package hooks

import "regexp"

// MatchesEvent checks if a matcher pattern matches the given value.
// Empty or "*" matches everything. Matcher is regex-anchored at both ends.
func MatchesEvent(matcher, matchValue string) bool {
	switch matcher {
	case "", "*":
		return true
	default:
		if re, err := regexp.Compile("^(" + matcher + ")$"); err == nil {
			return re.MatchString(matchValue)
		}
		return matcher == matchValue
	}
}

// GetMatchValue extracts the value to match against based on event type.
func GetMatchValue(event EventType, input HookInput) string {
	switch event {
	case UserPromptSubmit, Stop:
		return input.Kind
	case SessionStart:
		return input.Source
	case SessionEnd:
		return input.Reason
	default:
		return ""
	}
}
