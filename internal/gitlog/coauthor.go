package gitlog

import (
	"regexp"
	"strings"
)

var (
	coAuthorLine   = regexp.MustCompile(`(?m)^\s*Co-authored-by:(.*)$`)
	angleBracketed = regexp.MustCompile(`^(.*)<([^>]+)>$`)
)

// coAuthorRule turns the text of one trailer into a User. Rules are tried in
// order and the first one that matches wins.
type coAuthorRule struct {
	name  string
	parse func(text string) (User, bool)
}

var coAuthorRules = []coAuthorRule{
	{name: "angle-bracket-email", parse: parseAngleBracketEmail},
	{name: "bare-email-text", parse: parseBareEmailText},
	{name: "plain-name", parse: parsePlainName},
}

// "Some Name <some@email>"
func parseAngleBracketEmail(text string) (User, bool) {
	m := angleBracketed.FindStringSubmatch(text)
	if m == nil {
		return User{}, false
	}
	return User{
		Name:  strings.TrimSpace(m[1]),
		Email: strings.TrimSpace(m[2]),
	}, true
}

// no angle brackets, but an @
func parseBareEmailText(text string) (User, bool) {
	if !strings.Contains(text, "@") {
		return User{}, false
	}
	return User{Email: text}, true
}

func parsePlainName(text string) (User, bool) {
	return User{Name: text}, true
}

// ParseCoAuthors extracts the identities named in Co-authored-by trailers,
// in the order they appear. Malformed trailers degrade to a name-only or
// email-only identity instead of being rejected; duplicates are kept.
func ParseCoAuthors(message string) []User {
	matches := coAuthorLine.FindAllStringSubmatch(message, -1)
	users := make([]User, 0, len(matches))

	for _, m := range matches {
		text := strings.TrimSpace(m[1])
		for _, rule := range coAuthorRules {
			if user, ok := rule.parse(text); ok {
				users = append(users, user)
				break
			}
		}
	}

	return users
}
