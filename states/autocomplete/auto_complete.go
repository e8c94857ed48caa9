package autocomplete

import (
	"fmt"
	"strings"

	"github.com/treeconf/treeconf/framework"
)

var debugSuggestion = false

// acCandidate is the interface for auto-complete candidates.
type acCandidate interface {
	Match(cComp) bool
	NextCandidates(cComp) []acCandidate
	Suggest(cComp) map[string]string
}

// candidatesOf returns the alternatives below t in matching order:
// named children first, argument slot last.
func candidatesOf(t *framework.Token) []acCandidate {
	children := t.Children()
	result := make([]acCandidate, 0, len(children)+1)
	for _, child := range children {
		result = append(result, &tokenCandidate{Token: child})
	}
	if arg := t.ArgumentChild(); arg != nil {
		result = append(result, &argCandidate{Token: arg})
	}
	return result
}

// tokenCandidate wraps a named token as acCandidate.
type tokenCandidate struct {
	*framework.Token
}

// Match implements acCandidate, names are compared exactly.
func (c *tokenCandidate) Match(input cComp) bool {
	if debugSuggestion {
		fmt.Printf("token: %s, cType: %d, cTag: %s\n", c.Name(), input.cType, input.cTag)
	}
	return input.cType == cmdCompToken && c.Name() == input.cTag
}

// NextCandidates implements acCandidate, returns all alternatives below.
func (c *tokenCandidate) NextCandidates(_ cComp) []acCandidate {
	return candidatesOf(c.Token)
}

// Suggest implements acCandidate.
func (c *tokenCandidate) Suggest(target cComp) map[string]string {
	k := c.Name()
	if strings.HasPrefix(k, target.cTag) || target.cType == cmdCompAll {
		return map[string]string{k: c.Help()}
	}
	return map[string]string{}
}

// argCandidate wraps the argument slot token as acCandidate.
// It accepts any word, like the matcher does.
type argCandidate struct {
	*framework.Token
}

// Match implements acCandidate.
func (c *argCandidate) Match(input cComp) bool {
	return input.cType == cmdCompToken
}

// NextCandidates implements acCandidate.
func (c *argCandidate) NextCandidates(_ cComp) []acCandidate {
	return candidatesOf(c.Token)
}

// Suggest implements acCandidate. Values come from the registered suggester
// if any, otherwise the placeholder name is offered for an empty target.
func (c *argCandidate) Suggest(target cComp) map[string]string {
	if name := c.Suggester(); name != "" {
		if s, ok := GetValueSuggester(name); ok {
			result := make(map[string]string)
			for _, v := range s.Suggest(target.cTag) {
				if strings.HasPrefix(v, target.cTag) || target.cType == cmdCompAll {
					result[v] = c.Help()
				}
			}
			return result
		}
	}
	if target.cType == cmdCompAll || target.cTag == "" {
		return map[string]string{c.Name(): c.Help()}
	}
	return map[string]string{}
}

// SuggestInputTokens returns suggestions for the last word of input, the
// previous words being matched against the tree below root.
func SuggestInputTokens(input string, root *framework.Token) map[string]string {
	return findSuggestions(parseInput(input), root)
}

// SuggestArgs returns suggestions for toComplete after the already typed args.
func SuggestArgs(root *framework.Token, args []string, toComplete string) map[string]string {
	return findSuggestions(argsToComps(args, toComplete), root)
}

func findSuggestions(comps []cComp, root *framework.Token) map[string]string {
	// no suggestion if input is empty
	if len(comps) == 0 || root == nil {
		return map[string]string{}
	}

	candidates := candidatesOf(root)

	// reduce leading components
	// for example
	// "lamp1 dim 5", ac target shall be "5"
	// "lamp1 d", ac target shall be "d"
loop:
	for i := 0; i < len(comps)-1; i++ {
		if debugSuggestion {
			fmt.Printf("reducing part %d:", i)
			printCandidates(candidates)
		}

		for _, candidate := range candidates {
			if candidate.Match(comps[i]) {
				candidates = candidate.NextCandidates(comps[i])
				continue loop
			}
		}
		if debugSuggestion {
			fmt.Println("no suggestion matched, return")
		}
		return map[string]string{}
	}

	target := comps[len(comps)-1]
	result := make(map[string]string)
	for _, candidate := range candidates {
		for k, v := range candidate.Suggest(target) {
			result[k] = v
		}
	}
	return result
}

func printCandidates(candidates []acCandidate) {
	for _, c := range candidates {
		for k := range c.Suggest(cComp{}) {
			fmt.Printf("\"%s\" ", k)
		}
	}
	fmt.Println()
}
