package autocomplete

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// Suggester names registered by this package.
const (
	FileSuggester      = "file"
	DirectorySuggester = "directory"
)

func init() {
	RegisterValueSuggester(FileSuggester, &fileSuggester{})
	RegisterValueSuggester(DirectorySuggester, &fileSuggester{validator: func(info fs.DirEntry) bool { return info.IsDir() }})
}

// fileSuggester lists the entries of the folder part of the partial path.
type fileSuggester struct {
	validator func(fs.DirEntry) bool
}

// Suggest implements ValueSuggester.
func (c *fileSuggester) Suggest(partial string) []string {
	typed := partial
	var err error
	if strings.HasPrefix(partial, "~") {
		partial, err = homedir.Expand(partial)
		if err != nil {
			return nil
		}
	}
	var d, part string
	switch {
	case partial == "":
		d = "."
	case strings.HasSuffix(partial, "/"):
		d = partial
	default:
		d = path.Dir(partial)
		part = path.Base(partial)
	}

	if debugSuggestion {
		fmt.Println(d, part)
	}
	parent, err := os.Stat(d)
	if err != nil || !parent.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(d)
	if err != nil {
		return nil
	}

	var result []string
	for _, f := range entries {
		if !strings.HasPrefix(f.Name(), part) {
			continue
		}
		if c.validator != nil && !c.validator(f) {
			continue
		}
		result = append(result, joinPartial(partial, d, f.Name()))
	}
	if strings.HasPrefix(typed, "~") {
		home, err := homedir.Dir()
		if err == nil {
			for i, v := range result {
				result[i] = "~" + strings.TrimPrefix(v, home)
			}
		}
	}
	sort.Strings(result)
	return result
}

// joinPartial keeps the suggestion in the shape the user typed it, so that
// prefix filtering against the typed word still applies.
func joinPartial(partial, dir, name string) string {
	if partial == "" {
		return name
	}
	if strings.HasSuffix(partial, "/") {
		return partial + name
	}
	if !strings.Contains(partial, "/") {
		return name
	}
	return path.Join(dir, name)
}
