package autocomplete

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
)

// parseInput splits input into words with the quoting rules used when the
// line is processed. A line with an unterminated quote is still being typed,
// it falls back to a split on blanks.
func parseInput(input string) []cComp {
	// check is end with space
	isEndBlank := strings.HasSuffix(input, " ")

	parts, err := shellquote.Split(input)
	if err != nil {
		parts = lo.Filter(strings.Split(input, " "), func(part string, _ int) bool {
			return part != ""
		})
	}

	comps := lo.Map(parts, func(part string, _ int) cComp {
		return cComp{
			raw:   part,
			cTag:  part,
			cType: cmdCompToken,
		}
	})

	// add empty comp if end with space
	if isEndBlank {
		comps = append(comps, cComp{cType: cmdCompAll})
	}

	return comps
}

// argsToComps converts already split arguments plus the word being completed.
func argsToComps(args []string, toComplete string) []cComp {
	comps := lo.Map(args, func(arg string, _ int) cComp {
		return cComp{raw: arg, cTag: arg, cType: cmdCompToken}
	})
	if toComplete == "" {
		return append(comps, cComp{cType: cmdCompAll})
	}
	return append(comps, cComp{raw: toComplete, cTag: toComplete, cType: cmdCompToken})
}
