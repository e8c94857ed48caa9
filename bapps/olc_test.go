package bapps

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treeconf/treeconf/states"
)

func TestParseScripts(t *testing.T) {
	app := NewOlcApp("")
	cmds := app.parseScripts("toggle, #dim 30 ,, dim")
	assert.Equal(t, []olcCmd{
		{cmd: "toggle"},
		{cmd: "dim 30", muted: true},
		{cmd: "dim"},
	}, cmds)
}

func TestOlcMuteStdout(t *testing.T) {
	stdout := os.Stdout
	app := NewOlcApp("")

	restore := app.muteStdout()
	muted := os.Stdout
	assert.NotSame(t, stdout, muted)
	n, err := muted.WriteString("Turning lamp1 ON!\n")
	assert.NoError(t, err)
	assert.Equal(t, len("Turning lamp1 ON!\n"), n)

	restore()
	assert.Same(t, stdout, os.Stdout)
	_, err = muted.WriteString("after restore")
	assert.Error(t, err, "null device is closed on restore")
}

func TestOlcRun(t *testing.T) {
	newState := func(t *testing.T) (*states.CmdState, *bytes.Buffer, *states.Lighting) {
		lighting := states.NewLighting(io.Discard)
		root, err := lighting.Tree(states.TreeFlat)
		require.NoError(t, err)
		buf := &bytes.Buffer{}
		return states.NewCmdState(root, states.WithOutput(buf)), buf, lighting
	}

	t.Run("all commands", func(t *testing.T) {
		s, buf, lighting := newState(t)
		stdout := os.Stdout
		app := NewOlcApp("toggle,#dim 30")
		app.Run(s)
		assert.Same(t, stdout, os.Stdout)
		assert.Equal(t, 0, app.ExitCode())
		assert.Contains(t, buf.String(), "Lamp toggled successfully")
		assert.True(t, lighting.Lamp("lamp1").IsOn())
		assert.Equal(t, float64(30), lighting.Lamp("lamp1").Level())
	})

	t.Run("stop at failure", func(t *testing.T) {
		s, _, lighting := newState(t)
		app := NewOlcApp("dim x,toggle")
		app.Run(s)
		assert.Equal(t, 1, app.ExitCode())
		assert.False(t, lighting.Lamp("lamp1").IsOn())
	})

	t.Run("parse failure", func(t *testing.T) {
		s, _, _ := newState(t)
		app := NewOlcApp("toggle extra")
		app.Run(s)
		assert.Equal(t, 2, app.ExitCode())
	})

	t.Run("exit stops", func(t *testing.T) {
		s, _, lighting := newState(t)
		app := NewOlcApp("exit,toggle")
		app.Run(s)
		assert.False(t, lighting.Lamp("lamp1").IsOn())
	})
}
