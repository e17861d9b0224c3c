package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kr/text"
	"golang.org/x/term"
)

var Help = &Spec{
	Name:  "help",
	Usage: "help [command]",
	Short: "display help for a command",
	Long: `
For help on the top-level command just type "help".
For help on a subcommand, type "help command" where command is the name of
the command.  For help on command nested further, type "help cmd1 cmd2" and
so forth.`,
	HiddenFlags: "v",
	New: func(parent Command, f *flag.FlagSet) (Command, error) {
		c := &HelpCommand{}
		f.BoolVar(&c.vflag, "v", false, "show hidden commands and flags")
		return c, nil
	},
}

type HelpCommand struct {
	vflag bool
}

func (c *HelpCommand) Run(args []string) error {
	p, err := parseHelp(Help.Root(), args, true)
	if err != nil {
		return err
	}
	displayHelp(os.Stderr, p, c.vflag)
	return nil
}

const tab = "    "

// width is the width of the terminal on stderr, or 80.
func width() int {
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func formatParagraph(body, tab string, lineWidth int) string {
	var chunks []string
	for _, paragraph := range strings.Split(strings.TrimSpace(body), "\n\n") {
		chunk := text.Wrap(strings.TrimSpace(paragraph), lineWidth)
		chunks = append(chunks, strings.ReplaceAll(chunk, "\n", "\n"+tab))
	}
	return tab + strings.Join(chunks, "\n\n"+tab) + "\n\n"
}

func header(heading string) string {
	return "\033[1m" + heading + "\033[0m"
}

func displayHelp(w io.Writer, p path, showHidden bool) {
	spec := p.last().spec
	lineWidth := max(width()-len(tab)-5, 20)
	fmt.Fprintf(w, "%s\n%s%s - %s\n\n", header("NAME"), tab, spec.Name, spec.Short)
	fmt.Fprintf(w, "%s\n%s%s\n\n", header("USAGE"), tab, spec.Usage)
	fmt.Fprintf(w, "%s\n%s%s\n\n", header("OPTIONS"), tab, strings.Join(options(p, showHidden), "\n"+tab))
	if commands := subCommands(spec, showHidden); len(commands) > 0 {
		fmt.Fprintf(w, "%s\n%s%s\n\n", header("COMMANDS"), tab, strings.Join(commands, "\n"+tab))
	}
	if spec.Long != "" {
		fmt.Fprintf(w, "%s\n%s", header("DESCRIPTION"), formatParagraph(spec.Long, tab, lineWidth))
	}
}

// options lists the flags of the last command followed by the flags of
// each of its parents.
func options(p path, showHidden bool) []string {
	lines := p.last().options(showHidden)
	if len(lines) == 0 {
		lines = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		parent := p[k].options(showHidden)
		if len(parent) == 0 {
			continue
		}
		lines = append(lines, "", "["+p[:k+1].pathname()+" flags]")
		lines = append(lines, parent...)
	}
	return lines
}

func subCommands(spec *Spec, showHidden bool) []string {
	var lines []string
	for _, cmd := range spec.children {
		name := cmd.Name
		if cmd.Hidden {
			if !showHidden {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+cmd.Short)
	}
	return lines
}
