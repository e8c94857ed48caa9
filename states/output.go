package states

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/treeconf/treeconf/framework"
)

var (
	colorParseErr = color.New(color.FgRed)
	colorRunErr   = color.New(color.FgYellow)
	colorHint     = color.New(color.FgCyan)
)

// Stdout writes to the os.Stdout of the moment, so apps swapping os.Stdout
// (pager, muted one-line commands) capture the output of states built earlier.
var Stdout io.Writer = stdout{}

type stdout struct{}

func (stdout) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

// PrintOutcome writes the outcome of one parse to w.
// A completed parse prints the result in format, a parse failure prints the
// offending token, the matched history and the usage of the whole tree, a run
// failure prints the failing command.
func PrintOutcome(w io.Writer, res framework.Result, err error, format framework.Format) {
	switch framework.Classify(err) {
	case framework.OutcomeCompleted:
		fmt.Fprintln(w, framework.NewPresetResultSet(res, format).String())
	case framework.OutcomeParseFailed:
		var pe *framework.ParseError
		errors.As(err, &pe)
		colorParseErr.Fprintf(w, "%s after %q\n", pe.Message, tokenName(pe.Token))
		colorHint.Fprintf(w, "Matched: %s\n", pe.History)
		if pe.Root != nil {
			fmt.Fprintf(w, "Correct use of whole command is: %s\n", pe.Root.Usage(false))
		}
	default:
		var re *framework.RunError
		if errors.As(err, &re) {
			colorRunErr.Fprintf(w, "%s for command %q\n", re.Error(), tokenName(re.Token))
			return
		}
		colorRunErr.Fprintln(w, err.Error())
	}
}

func tokenName(t *framework.Token) string {
	if t == nil {
		return ""
	}
	return t.Name()
}
