package framework

import (
	"context"
)

// Kind tags the behavior of a Token during matching.
type Kind int

const (
	// KindToken is a named literal.
	KindToken Kind = iota
	// KindArgument captures the text that selected it.
	KindArgument
	// KindFlag records that its name was matched.
	KindFlag
	// KindCommand runs an action once its subtree matched.
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindArgument:
		return "argument"
	case KindFlag:
		return "flag"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// RunFunc is the action of a command token. It receives the captures of the
// parse that selected the command.
type RunFunc func(ctx context.Context, m *Match) (Result, error)

// Token is a node of the command tree.
type Token struct {
	kind         Kind
	name         string
	help         string
	mayTerminate bool
	suggester    string

	children []*Token
	argChild *Token

	run RunFunc
}

// TokenOption setup option function for tokens.
type TokenOption func(*Token)

// WithHelp sets the help text of the token.
func WithHelp(help string) TokenOption {
	return func(t *Token) {
		t.help = help
	}
}

// WithMayTerminate allows matching to stop at the token even if it has
// descendants.
func WithMayTerminate() TokenOption {
	return func(t *Token) {
		t.mayTerminate = true
	}
}

// WithSuggester names the value suggester used by autocomplete for an
// argument token.
func WithSuggester(name string) TokenOption {
	return func(t *Token) {
		t.suggester = name
	}
}

func newToken(kind Kind, name string, opts ...TokenOption) *Token {
	if name == "" {
		panic("framework: token name must not be empty")
	}
	t := &Token{
		kind: kind,
		name: name,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewToken returns a named literal token.
func NewToken(name string, opts ...TokenOption) *Token {
	return newToken(KindToken, name, opts...)
}

// NewArgument returns an argument token. Pushed into a parent it occupies the
// parent's argument slot.
func NewArgument(name string, opts ...TokenOption) *Token {
	return newToken(KindArgument, name, opts...)
}

// NewFlag returns a flag token.
func NewFlag(name string, opts ...TokenOption) *Token {
	return newToken(KindFlag, name, opts...)
}

// NewCommand returns a command token invoking run after a successful match.
func NewCommand(name string, run RunFunc, opts ...TokenOption) *Token {
	t := newToken(KindCommand, name, opts...)
	t.run = run
	return t
}

// Push adds child below t and returns t.
// An argument child replaces the current argument slot occupant, if any;
// any other kind is appended to the named children.
func (t *Token) Push(child *Token) *Token {
	if child == nil {
		return t
	}
	if child.kind == KindArgument {
		t.argChild = child
		return t
	}
	t.children = append(t.children, child)
	return t
}

// Name returns the token name.
func (t *Token) Name() string { return t.name }

// Help returns the help text.
func (t *Token) Help() string { return t.help }

// Description returns name and help combined.
func (t *Token) Description() string {
	if t.help == "" {
		return t.name
	}
	return t.name + " : " + t.help
}

// Kind returns the token kind.
func (t *Token) Kind() Kind { return t.kind }

// MayTerminate reports whether matching may stop at t.
func (t *Token) MayTerminate() bool { return t.mayTerminate }

// Suggester returns the value suggester name, if any.
func (t *Token) Suggester() string { return t.suggester }

// Children returns a copy of the named children in registration order.
func (t *Token) Children() []*Token {
	result := make([]*Token, len(t.children))
	copy(result, t.children)
	return result
}

// ArgumentChild returns the argument slot occupant, nil if empty.
func (t *Token) ArgumentChild() *Token { return t.argChild }

// IsLeaf returns true if t has neither named children nor argument slot.
func (t *Token) IsLeaf() bool {
	return len(t.children) == 0 && t.argChild == nil
}

// FindChild returns the first named child called name.
func (t *Token) FindChild(name string) *Token {
	for _, child := range t.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// alternatives returns named children followed by the argument slot.
func (t *Token) alternatives() []*Token {
	alts := t.Children()
	if t.argChild != nil {
		alts = append(alts, t.argChild)
	}
	return alts
}

// Walk calls fn for t and every descendant in pre-order, named children
// before the argument slot. path holds the names from t down to the node.
func (t *Token) Walk(fn func(node *Token, path []string)) {
	t.walk(nil, fn)
}

func (t *Token) walk(parent []string, fn func(*Token, []string)) {
	path := make([]string, len(parent)+1)
	copy(path, parent)
	path[len(parent)] = t.name
	fn(t, path)
	for _, child := range t.alternatives() {
		child.walk(path, fn)
	}
}
