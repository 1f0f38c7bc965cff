package access

// AllowsOwn implements the ".me"/".all" scope pair policies are built
// from: "<prefix>.all" grants unconditionally, "<prefix>.me" grants
// only when the acting subject owns the target resource.
func AllowsOwn(sub Subject, prefix, ownerID string) bool {
	if Granted(sub, prefix+".all") {
		return true
	}
	if !Granted(sub, prefix+".me") {
		return false
	}
	return sub != nil && sub.SubjectID() != "" && sub.SubjectID() == ownerID
}

// AllowedWithScopes is the final cross-cutting check: authorization is
// the conjunction of the RBAC grant AND the OAuth access token's
// granted scopes containing the ability. A bare "*" scope matches
// everything.
func AllowedWithScopes(sub Subject, ability string, tokenScopes []string) bool {
	if !Granted(sub, ability) {
		return false
	}
	return ScopeCovers(tokenScopes, ability)
}

// ScopeCovers reports whether the token scope list includes the
// ability, directly or through a module wildcard.
func ScopeCovers(scopes []string, ability string) bool {
	for _, s := range scopes {
		if s == "*" {
			return true
		}
	}
	return Granted(scopeList(scopes), ability)
}

// scopeList lets the wildcard matcher run over a plain string slice.
type scopeList []string

func (s scopeList) Abilities() []string { return s }
func (s scopeList) SubjectID() string   { return "" }
