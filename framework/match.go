package framework

import (
	"strings"
)

// Match holds the captures of one top-level parse. Every parse starts from
// an empty Match, so no argument text or flag state survives between calls.
type Match struct {
	root  *Token
	texts map[*Token]string
	flags map[*Token]bool
	path  []*Token
}

func newMatch(root *Token) *Match {
	return &Match{
		root:  root,
		texts: make(map[*Token]string),
		flags: make(map[*Token]bool),
	}
}

// Root returns the tree root the match was produced for.
func (m *Match) Root() *Token { return m.root }

// Text returns the text captured by arg, empty when arg was not matched.
func (m *Match) Text(arg *Token) string {
	if m == nil {
		return ""
	}
	return m.texts[arg]
}

// IsSet reports whether flag was matched.
func (m *Match) IsSet(flag *Token) bool {
	if m == nil {
		return false
	}
	return m.flags[flag]
}

// Lookup returns the text captured by the first matched argument called name.
func (m *Match) Lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, t := range m.path {
		if t.kind == KindArgument && t.name == name {
			return m.texts[t], true
		}
	}
	return "", false
}

// Path returns the matched tokens, root first.
func (m *Match) Path() []*Token {
	if m == nil {
		return nil
	}
	result := make([]*Token, len(m.path))
	copy(result, m.path)
	return result
}

// History returns the space-joined names of the matched tokens.
func (m *Match) History() string {
	if m == nil {
		return ""
	}
	names := make([]string, 0, len(m.path))
	for _, t := range m.path {
		names = append(names, t.name)
	}
	return strings.Join(names, " ")
}

func (m *Match) enter(t *Token, text string) {
	m.path = append(m.path, t)
	switch t.kind {
	case KindArgument:
		m.texts[t] = text
	case KindFlag:
		m.flags[t] = true
	}
}
