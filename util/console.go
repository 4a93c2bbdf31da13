package util

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console prints progress to out and problems to errOut, colouring the lines
// that matter. It satisfies cleandisk.Logger.
type Console struct {
	out    io.Writer
	errOut io.Writer

	yellow *color.Color
	red    *color.Color
	green  *color.Color
}

func NewConsole(out, errOut io.Writer) *Console {
	return &Console{
		out:    out,
		errOut: errOut,
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		green:  color.New(color.FgGreen),
	}
}

func (c *Console) Infof(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) Warnf(format string, args ...interface{}) {
	c.yellow.Fprintf(c.errOut, format+"\n", args...)
}

func (c *Console) Errorf(format string, args ...interface{}) {
	c.red.Fprintf(c.errOut, format+"\n", args...)
}

// Resultf prints the outcome of a run.
func (c *Console) Resultf(format string, args ...interface{}) {
	c.green.Fprintf(c.out, format+"\n", args...)
}
