package sharetoken

import (
	"fmt"
	"strings"
)

// Links builds public URLs for issued tokens. Pure formatting over the
// configured base URL; no side effects.
type Links struct {
	base string
}

// NewLinks constructs a link builder. Trailing slashes on the base URL are
// stripped so path joining stays predictable.
func NewLinks(baseURL string) Links {
	return Links{base: strings.TrimRight(baseURL, "/")}
}

// ViewURL returns the public estimate view link for a share token.
func (l Links) ViewURL(token string) string {
	return fmt.Sprintf("%s/view/%s", l.base, token)
}

// IntakeURL returns the customer intake link for an intake token.
func (l Links) IntakeURL(token string) string {
	return fmt.Sprintf("%s/intake/%s", l.base, token)
}
