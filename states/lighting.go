package states

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states/autocomplete"
)

// Lighting tree shapes.
const (
	TreeFlat        = "flat"
	TreeControllers = "controllers"
	TreeArgument    = "argument"
	TreeTyped       = "typed"
)

// LampSuggester prefixes the value suggester names listing lamp names,
// each Lighting registering its own.
const LampSuggester = "lamps"

const defaultDimValue = 50

// Lamp is a dimmable light switched by the lighting trees.
type Lamp struct {
	mut   sync.Mutex
	name  string
	on    bool
	level float64
	out   io.Writer
}

// NewLamp returns a switched off lamp reporting to out.
func NewLamp(name string, out io.Writer) *Lamp {
	if out == nil {
		out = Stdout
	}
	return &Lamp{name: name, out: out}
}

// Name returns the lamp name.
func (l *Lamp) Name() string { return l.name }

// IsOn reports whether the lamp is switched on.
func (l *Lamp) IsOn() bool {
	l.mut.Lock()
	defer l.mut.Unlock()
	return l.on
}

// Level returns the last dim value.
func (l *Lamp) Level() float64 {
	l.mut.Lock()
	defer l.mut.Unlock()
	return l.level
}

// Toggle switches the lamp from ON to OFF or vice versa.
func (l *Lamp) Toggle() {
	l.mut.Lock()
	defer l.mut.Unlock()
	l.on = !l.on
	if l.on {
		fmt.Fprintf(l.out, "Turning %s ON!\n", l.name)
		return
	}
	fmt.Fprintf(l.out, "Turning %s OFF!\n", l.name)
}

// Dim sets the lamp level in percent.
func (l *Lamp) Dim(value float64) {
	l.mut.Lock()
	defer l.mut.Unlock()
	l.level = value
	fmt.Fprintf(l.out, "Dimming lights to %g percent\n", value)
}

// Lighting owns a set of lamps and builds command trees controlling them.
type Lighting struct {
	lamps     map[string]*Lamp
	names     []string
	suggester string
}

// NewLighting returns a Lighting with lamps named after names,
// lamp1 and lamp2 when none is provided.
func NewLighting(out io.Writer, names ...string) *Lighting {
	if len(names) == 0 {
		names = []string{"lamp1", "lamp2"}
	}
	names = lo.Uniq(names)
	l := &Lighting{
		lamps: make(map[string]*Lamp, len(names)),
		names: names,
	}
	for _, name := range names {
		l.lamps[name] = NewLamp(name, out)
	}
	l.suggester = fmt.Sprintf("%s/%p", LampSuggester, l)
	autocomplete.RegisterValueSuggester(l.suggester, autocomplete.ValueSuggestFunc(l.suggestLamps))
	return l
}

// Suggester returns the name of the value suggester listing these lamps.
func (l *Lighting) Suggester() string {
	return l.suggester
}

// Lamp returns the lamp called name, nil if absent.
func (l *Lighting) Lamp(name string) *Lamp {
	return l.lamps[name]
}

func (l *Lighting) suggestLamps(partial string) []string {
	result := lo.Filter(l.names, func(name string, _ int) bool {
		return strings.HasPrefix(name, partial)
	})
	sort.Strings(result)
	return result
}

// TreeShapes returns the accepted tree shape names.
func TreeShapes() []string {
	return []string{TreeFlat, TreeControllers, TreeArgument, TreeTyped}
}

// Tree builds the lighting tree of the provided shape.
func (l *Lighting) Tree(shape string) (*framework.Token, error) {
	switch shape {
	case TreeFlat, "":
		return l.flatTree(), nil
	case TreeControllers:
		return l.controllersTree(), nil
	case TreeArgument:
		return l.argumentTree(), nil
	case TreeTyped:
		return l.typedTree(), nil
	default:
		return nil, errors.Newf("unknown tree %q, expected one of %s", shape, strings.Join(TreeShapes(), ", "))
	}
}

// flatTree builds lighting { toggle | dim [ <dim_value> ] } on the first lamp.
func (l *Lighting) flatTree() *framework.Token {
	root := framework.NewToken("lighting")
	pushController(root, l.lamps[l.names[0]])
	return root
}

// controllersTree builds lighting { lamp1 { toggle | dim [ <dim_value> ] } | ... }.
func (l *Lighting) controllersTree() *framework.Token {
	root := framework.NewToken("lighting")
	for _, name := range l.names {
		root.Push(pushController(framework.NewToken(name), l.lamps[name]))
	}
	return root
}

// pushController adds the toggle and dim commands of lamp to parent.
func pushController(parent *framework.Token, lamp *Lamp) *framework.Token {
	toggle := framework.NewCommand("toggle", func(context.Context, *framework.Match) (framework.Result, error) {
		lamp.Toggle()
		return framework.NewResult(framework.SuccessCode, "Lamp toggled successfully"), nil
	}, framework.WithHelp("Switch from ON to OFF or vice versa"))

	value := framework.NewArgument("<dim_value>", framework.WithHelp("A percentage between 0 and 100"))
	var dim *framework.Token
	dim = framework.NewCommand("dim", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		text := m.Text(value)
		if text == "" {
			lamp.Dim(defaultDimValue)
			return framework.NewResult(framework.SuccessCode, "Lamp dimmed successfully to default value"), nil
		}
		v, err := framework.Float64(text)
		if err != nil {
			return framework.Result{}, framework.NewRunError(dim, "Cannot convert %q to dim value", text)
		}
		lamp.Dim(v)
		return framework.NewResult(framework.SuccessCode, "Lamp dimmed successfully"), nil
	}, framework.WithHelp("Dim lights"), framework.WithMayTerminate())
	dim.Push(value)

	return parent.Push(toggle).Push(dim)
}

// argumentTree builds lighting <lamp name> { toggle | dim <dim_value> },
// the lamp being looked up when a command runs.
func (l *Lighting) argumentTree() *framework.Token {
	root := framework.NewToken("lighting")
	lampArg := framework.NewArgument("<lamp name>",
		framework.WithHelp("Name of lamp to control"),
		framework.WithSuggester(l.suggester))

	var toggle *framework.Token
	toggle = framework.NewCommand("toggle", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		lamp, err := l.findLamp(toggle, m.Text(lampArg))
		if err != nil {
			return framework.Result{}, err
		}
		lamp.Toggle()
		return framework.NewResult(framework.SuccessCode, "Lamp toggled successfully"), nil
	}, framework.WithHelp("Switch from ON to OFF and vice versa"))

	value := framework.NewArgument("<dim_value>", framework.WithHelp("A percentage between 0 and 100"))
	var dim *framework.Token
	dim = framework.NewCommand("dim", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		lamp, err := l.findLamp(dim, m.Text(lampArg))
		if err != nil {
			return framework.Result{}, err
		}
		v, err := framework.Value[float64](m, value, framework.Float64)
		if err != nil {
			return framework.Result{}, err
		}
		lamp.Dim(v)
		return framework.NewResult(framework.SuccessCode, "Lamp dimmed successfully"), nil
	}, framework.WithHelp("Dim lights"))
	dim.Push(value)

	lampArg.Push(toggle).Push(dim)
	return root.Push(lampArg)
}

// typedTree builds the argument shape with the lamp resolved by a converter.
func (l *Lighting) typedTree() *framework.Token {
	root := framework.NewToken("lighting")
	lampArg := framework.NewArgument("<lamp name>",
		framework.WithHelp("Name of lamp to control"),
		framework.WithSuggester(l.suggester))
	value := framework.NewArgument("<dim_value>", framework.WithHelp("A percentage between 0 and 100"))

	var toggle *framework.Token
	toggle = framework.NewCommand("toggle", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		lamp, err := framework.Value(m, lampArg, l.lampConverter(toggle))
		if err != nil {
			return framework.Result{}, err
		}
		lamp.Toggle()
		return framework.NewResult(framework.SuccessCode, "Lamp toggled successfully"), nil
	}, framework.WithHelp("Switch from ON to OFF and vice versa"))

	var dim *framework.Token
	dim = framework.NewCommand("dim", func(_ context.Context, m *framework.Match) (framework.Result, error) {
		lamp, err := framework.Value(m, lampArg, l.lampConverter(dim))
		if err != nil {
			return framework.Result{}, err
		}
		v, err := framework.Value[float64](m, value, framework.Float64)
		if err != nil {
			return framework.Result{}, err
		}
		lamp.Dim(v)
		return framework.NewResult(framework.SuccessCode, "Lamp dimmed successfully"), nil
	}, framework.WithHelp("Dim lights"))
	dim.Push(value)

	lampArg.Push(toggle).Push(dim)
	return root.Push(lampArg)
}

func (l *Lighting) findLamp(cmd *framework.Token, name string) (*Lamp, error) {
	lamp, ok := l.lamps[name]
	if !ok {
		return nil, framework.NewRunError(cmd, "Could not find lamp called: %q", name)
	}
	return lamp, nil
}

// lampConverter resolves the lamp name, failures being reported against cmd.
func (l *Lighting) lampConverter(cmd *framework.Token) framework.Converter[*Lamp] {
	lookup := framework.Lookup(l.lamps)
	return func(text string) (*Lamp, error) {
		lamp, err := lookup(text)
		if err != nil {
			return nil, framework.NewRunError(cmd, "Could not find lamp called: %q", text)
		}
		return lamp, nil
	}
}
