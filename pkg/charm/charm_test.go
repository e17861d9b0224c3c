package charm

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	parent  Command
	verbose bool
	ran     *[]string
}

func (c *testCommand) Run(args []string) error {
	*c.ran = append(*c.ran, args...)
	return nil
}

func testSpecs(ran *[]string) *Spec {
	root := &Spec{
		Name:  "root",
		Usage: "root <command>",
		Short: "test root",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			c := &testCommand{ran: ran}
			f.BoolVar(&c.verbose, "v", false, "verbose")
			return c, nil
		},
	}
	root.Add(&Spec{
		Name:        "sub",
		Usage:       "sub [file]",
		Short:       "test sub",
		Long:        "A long description of the sub command.",
		HiddenFlags: "secret",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			f.String("secret", "", "hidden flag")
			f.Int("n", 3, "count")
			return &testCommand{parent: parent, ran: ran}, nil
		},
	})
	return root
}

func TestExec(t *testing.T) {
	var ran []string
	root := testSpecs(&ran)
	require.NoError(t, root.Exec([]string{"-v", "sub", "-n", "5", "a", "b"}))
	assert.Equal(t, []string{"a", "b"}, ran)

	p, rest, err := parse(root, []string{"-v", "sub", "x"}, nil)
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, "root sub", p.pathname())
	assert.Equal(t, []string{"x"}, rest)
	assert.True(t, p[1].command.(*testCommand).parent.(*testCommand).verbose)

	_, _, err = parse(root, []string{"-bogus"}, nil)
	assert.Error(t, err)
	_, _, err = parse(root, []string{"sub", "-h"}, nil)
	assert.Equal(t, NeedHelp, err)
}

func TestHelp(t *testing.T) {
	var ran []string
	root := testSpecs(&ran)
	p, err := parseHelp(root, []string{"sub"}, true)
	require.NoError(t, err)
	var buf bytes.Buffer
	displayHelp(&buf, p, false)
	out := buf.String()
	assert.Contains(t, out, "sub - test sub")
	assert.Contains(t, out, `-n count (default "3")`)
	assert.Contains(t, out, "[root flags]")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "A long description")

	buf.Reset()
	displayHelp(&buf, p, true)
	assert.Contains(t, buf.String(), "[-secret]")

	_, err = parseHelp(root, []string{"nope"}, true)
	assert.ErrorContains(t, err, "no such command: root nope")
}

func TestFormatParagraph(t *testing.T) {
	out := formatParagraph("aaaaaa bbbbbb cccccc\n\nfive", tab, 9)
	assert.Equal(t, tab+"aaaaaa\n"+tab+"bbbbbb\n"+tab+"cccccc\n\n"+tab+"five\n\n", out)
	assert.False(t, strings.Contains(out, "  \n"))
}
