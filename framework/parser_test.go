package framework

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lightingFixture struct {
	root     *Token
	toggle   *Token
	dim      *Token
	dimValue *Token

	toggled int
	dimmed  []string
}

// newLightingFixture builds lighting {toggle | dim [<dim_value>]}.
func newLightingFixture() *lightingFixture {
	f := &lightingFixture{}
	f.root = NewToken("lighting")
	f.toggle = NewCommand("toggle", func(ctx context.Context, m *Match) (Result, error) {
		f.toggled++
		return NewResult(0, "Lamp toggled successfully"), nil
	}, WithHelp("Switch from ON to OFF or vice versa"))
	f.dimValue = NewArgument("<dim_value>", WithHelp("A percentage between 0 and 100"))
	f.dim = NewCommand("dim", func(ctx context.Context, m *Match) (Result, error) {
		text := m.Text(f.dimValue)
		f.dimmed = append(f.dimmed, text)
		if text == "" {
			return NewResult(0, "Lamp dimmed successfully to default value"), nil
		}
		return NewResult(0, "Lamp dimmed successfully"), nil
	}, WithHelp("Dim lights"), WithMayTerminate())
	f.dim.Push(f.dimValue)
	f.root.Push(f.toggle).Push(f.dim)
	return f
}

func TestLightingScenario(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle", func(t *testing.T) {
		f := newLightingFixture()
		res, err := f.root.Parse(ctx, []string{"toggle"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Code)
		assert.Equal(t, "Lamp toggled successfully", res.Message)
		assert.Equal(t, 1, f.toggled)
	})

	t.Run("dim with value", func(t *testing.T) {
		f := newLightingFixture()
		m, res, err := f.root.Execute(ctx, []string{"dim", "75"})
		require.NoError(t, err)
		assert.Equal(t, "75", m.Text(f.dimValue))
		assert.Equal(t, 0, res.Code)
		assert.Equal(t, "Lamp dimmed successfully", res.Message)
		assert.Equal(t, []string{"75"}, f.dimmed)
	})

	t.Run("dim default", func(t *testing.T) {
		f := newLightingFixture()
		m, res, err := f.root.Execute(ctx, []string{"dim"})
		require.NoError(t, err)
		assert.Equal(t, "", m.Text(f.dimValue))
		assert.Equal(t, 0, res.Code)
		assert.Equal(t, "Lamp dimmed successfully to default value", res.Message)
	})

	t.Run("unknown", func(t *testing.T) {
		f := newLightingFixture()
		_, err := f.root.Parse(ctx, []string{"unknown"})
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MsgWrongArgument, pe.Message)
		assert.Equal(t, "lighting", pe.History)
		assert.Same(t, f.root, pe.Token)
		assert.Same(t, f.root, pe.Root)
		assert.Equal(t, 0, f.toggled)
	})

	t.Run("toggle extra", func(t *testing.T) {
		f := newLightingFixture()
		_, err := f.root.Parse(ctx, []string{"toggle", "extra"})
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MsgTooManyArguments, pe.Message)
		assert.Equal(t, "lighting toggle", pe.History)
		assert.Same(t, f.toggle, pe.Token)
		assert.Same(t, f.root, pe.Root)
		assert.Equal(t, 0, f.toggled)
	})

	t.Run("empty input", func(t *testing.T) {
		f := newLightingFixture()
		res, err := f.root.Parse(ctx, nil)
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MsgNotEnoughArgument, pe.Message)
		assert.Equal(t, "lighting", pe.History)
		assert.Equal(t, FailureCode, res.Code)
	})
}

func TestParseStructure(t *testing.T) {
	ctx := context.Background()

	t.Run("named child wins over argument slot", func(t *testing.T) {
		root := NewToken("root")
		lit := NewToken("all")
		arg := NewArgument("<name>")
		root.Push(arg).Push(lit)

		m, res, err := root.Execute(ctx, []string{"all"})
		require.NoError(t, err)
		assert.Equal(t, Success, res)
		assert.Equal(t, "", m.Text(arg))
		assert.Equal(t, "root all", m.History())

		m, _, err = root.Execute(ctx, []string{"other"})
		require.NoError(t, err)
		assert.Equal(t, "other", m.Text(arg))
		assert.Equal(t, "root <name>", m.History())
	})

	t.Run("argument accepts any text", func(t *testing.T) {
		root := NewToken("root")
		arg := NewArgument("<any>")
		root.Push(arg)
		for _, in := range []string{"-x", "", "with space", "root"} {
			m, _, err := root.Execute(ctx, []string{in})
			require.NoError(t, err)
			assert.Equal(t, in, m.Text(arg))
		}
	})

	t.Run("flag records presence", func(t *testing.T) {
		root := NewToken("root", WithMayTerminate())
		verbose := NewFlag("--verbose", WithMayTerminate())
		quiet := NewFlag("--quiet")
		root.Push(verbose).Push(quiet)

		m, _, err := root.Execute(ctx, []string{"--verbose"})
		require.NoError(t, err)
		assert.True(t, m.IsSet(verbose))
		assert.False(t, m.IsSet(quiet))

		m, _, err = root.Execute(ctx, nil)
		require.NoError(t, err)
		assert.False(t, m.IsSet(verbose))
	})

	t.Run("leaf succeeds on zero input", func(t *testing.T) {
		for _, opts := range [][]TokenOption{nil, {WithMayTerminate()}} {
			leaf := NewToken("leaf", opts...)
			res, err := leaf.Parse(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, Success, res)
		}
	})

	t.Run("leaf rejects extra input", func(t *testing.T) {
		leaf := NewToken("leaf", WithMayTerminate())
		_, err := leaf.Parse(ctx, []string{"x"})
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MsgTooManyArguments, pe.Message)
		assert.Equal(t, "leaf", pe.History)
	})

	t.Run("missing required argument", func(t *testing.T) {
		root := NewToken("root")
		set := NewToken("set")
		set.Push(NewArgument("<value>"))
		root.Push(set)

		_, err := root.Parse(ctx, []string{"set"})
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, MsgNotEnoughArgument, pe.Message)
		assert.Equal(t, "root set", pe.History)
		assert.Same(t, set, pe.Token)
	})

	t.Run("duplicate names first registered wins", func(t *testing.T) {
		root := NewToken("root")
		var hits []string
		mk := func(tag string) *Token {
			return NewCommand("same", func(context.Context, *Match) (Result, error) {
				hits = append(hits, tag)
				return Success, nil
			})
		}
		root.Push(mk("first")).Push(mk("second"))
		_, err := root.Parse(ctx, []string{"same"})
		require.NoError(t, err)
		assert.Equal(t, []string{"first"}, hits)
	})
}

func TestCommandExecution(t *testing.T) {
	ctx := context.Background()

	t.Run("run not invoked on structural failure", func(t *testing.T) {
		called := false
		root := NewToken("root")
		cmd := NewCommand("set", func(context.Context, *Match) (Result, error) {
			called = true
			return Success, nil
		})
		cmd.Push(NewArgument("<value>"))
		root.Push(cmd)

		_, err := root.Parse(ctx, []string{"set"})
		assert.Equal(t, OutcomeParseFailed, Classify(err))
		assert.False(t, called)

		_, err = root.Parse(ctx, []string{"set", "1", "2"})
		assert.Equal(t, OutcomeParseFailed, Classify(err))
		assert.False(t, called)

		_, err = root.Parse(ctx, []string{"set", "1"})
		assert.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("plain error is reported against the command", func(t *testing.T) {
		root := NewToken("root")
		cmd := NewCommand("boom", func(context.Context, *Match) (Result, error) {
			return Result{}, errors.New("exploded")
		})
		root.Push(cmd)

		res, err := root.Parse(ctx, []string{"boom"})
		var re *RunError
		require.True(t, errors.As(err, &re))
		assert.Same(t, cmd, re.Token)
		assert.Equal(t, OutcomeRunFailed, Classify(err))
		assert.Equal(t, FailureCode, res.Code)
		assert.Contains(t, err.Error(), "exploded")
	})

	t.Run("run error without token gets the command", func(t *testing.T) {
		root := NewToken("root")
		cmd := NewCommand("boom", func(context.Context, *Match) (Result, error) {
			return Result{}, NewRunError(nil, "Could not find lamp called: %q", "x")
		})
		root.Push(cmd)

		_, err := root.Parse(ctx, []string{"boom"})
		var re *RunError
		require.True(t, errors.As(err, &re))
		assert.Same(t, cmd, re.Token)
		assert.Equal(t, `Could not find lamp called: "x"`, re.Message)
	})

	t.Run("run error keeps its own token", func(t *testing.T) {
		root := NewToken("root")
		arg := NewArgument("<n>")
		cmd := NewCommand("count", func(_ context.Context, m *Match) (Result, error) {
			n, err := Value[int](m, arg, Int)
			if err != nil {
				return Result{}, err
			}
			return NewResult(n, "counted"), nil
		})
		cmd.Push(arg)
		root.Push(cmd)

		_, err := root.Parse(ctx, []string{"count", "abc"})
		var re *RunError
		require.True(t, errors.As(err, &re))
		assert.Same(t, arg, re.Token)

		res, err := root.Parse(ctx, []string{"count", "7"})
		require.NoError(t, err)
		assert.Equal(t, 7, res.Code)
	})

	t.Run("non success result is returned without error", func(t *testing.T) {
		root := NewToken("root")
		root.Push(NewCommand("fail", func(context.Context, *Match) (Result, error) {
			return NewResult(FailureCode, "nothing to do"), nil
		}))
		res, err := root.Parse(ctx, []string{"fail"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeCompleted, Classify(err))
		assert.Equal(t, NewResult(FailureCode, "nothing to do"), res)
	})

	t.Run("nested commands run inner first", func(t *testing.T) {
		var order []string
		outer := NewCommand("outer", func(context.Context, *Match) (Result, error) {
			order = append(order, "outer")
			return NewResult(0, "outer done"), nil
		})
		inner := NewCommand("inner", func(context.Context, *Match) (Result, error) {
			order = append(order, "inner")
			return NewResult(3, "inner done"), nil
		})
		outer.Push(inner)

		res, err := outer.Parse(ctx, []string{"inner"})
		require.NoError(t, err)
		assert.Equal(t, []string{"inner"}, order)
		assert.Equal(t, 3, res.Code)

		inner2 := NewCommand("inner", func(context.Context, *Match) (Result, error) {
			order = append(order, "inner2")
			return Success, nil
		})
		outer2 := NewCommand("outer", func(context.Context, *Match) (Result, error) {
			order = append(order, "outer2")
			return NewResult(0, "outer done"), nil
		})
		outer2.Push(inner2)
		res, err = outer2.Parse(ctx, []string{"inner"})
		require.NoError(t, err)
		assert.Equal(t, "outer done", res.Message)
		assert.Equal(t, []string{"inner", "inner2", "outer2"}, order)
	})

	t.Run("cancelled context stops the action", func(t *testing.T) {
		called := false
		root := NewCommand("root", func(context.Context, *Match) (Result, error) {
			called = true
			return Success, nil
		})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := root.Parse(cctx, nil)
		assert.Equal(t, OutcomeRunFailed, Classify(err))
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, called)
	})

	t.Run("command without action succeeds", func(t *testing.T) {
		root := NewToken("root")
		root.Push(NewCommand("noop", nil))
		res, err := root.Parse(ctx, []string{"noop"})
		require.NoError(t, err)
		assert.Equal(t, Success, res)
	})
}

func TestResetBetweenParses(t *testing.T) {
	ctx := context.Background()
	root := NewToken("root", WithMayTerminate())
	flag := NewFlag("-f", WithMayTerminate())
	arg := NewArgument("<v>")
	flag.Push(arg)
	root.Push(flag)

	first, _, err := root.Execute(ctx, []string{"-f", "one"})
	require.NoError(t, err)
	assert.True(t, first.IsSet(flag))
	assert.Equal(t, "one", first.Text(arg))

	second, _, err := root.Execute(ctx, nil)
	require.NoError(t, err)
	assert.False(t, second.IsSet(flag))
	assert.Equal(t, "", second.Text(arg))

	// earlier captures are not touched by later parses
	assert.Equal(t, "one", first.Text(arg))
}
