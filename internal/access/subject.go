// Package access answers "may this subject perform this ability".
// Abilities are dot-namespaced permission names; a subject holding the
// module wildcard "<module>.*" is granted every ability of the module.
package access

import "strings"

// Subject is anything that can be checked against an ability: an
// authenticated user, or the configured default role standing in for
// an anonymous caller.
type Subject interface {
	// Abilities lists the permission names the subject holds.
	Abilities() []string
	// SubjectID identifies the acting user for ownership checks.
	// Role subjects return "" and never pass an ownership comparison.
	SubjectID() string
}

// Granted reports whether the subject holds the ability, either as the
// literal permission or through the module wildcard.
func Granted(sub Subject, ability string) bool {
	if sub == nil || ability == "" {
		return false
	}

	wildcard := ""
	if i := strings.Index(ability, "."); i > 0 {
		wildcard = ability[:i] + ".*"
	}

	for _, held := range sub.Abilities() {
		if held == ability || (wildcard != "" && held == wildcard) {
			return true
		}
	}
	return false
}
