package autocomplete

type cmdCompType int

const (
	cmdCompAll cmdCompType = iota
	cmdCompToken
)

// cComp is one blank separated component of the input line.
type cComp struct {
	// raw is the complete value before component parsing
	raw string
	// cTag is the text matched against token names
	cTag string
	// cType marks the comp is a typed word or an empty target
	cType cmdCompType
}
