package platform

import (
	"strings"
	"unicode"
)

// ChatHandle derives a chat handle from a display name: "Jane Doe" -> "@janedoe".
func ChatHandle(name string) string {
	var b strings.Builder
	b.WriteByte('@')
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
