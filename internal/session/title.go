package session

import "unicode/utf8"

// MaxTitleLength is the number of characters kept from the first user
// message when titling a session.
const MaxTitleLength = 20

// TitleFromMessage derives a session title from the first user message:
// the first MaxTitleLength characters, with "..." appended only when the
// text was longer than that.
func TitleFromMessage(text string) string {
	if utf8.RuneCountInString(text) <= MaxTitleLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTitleLength]) + "..."
}
