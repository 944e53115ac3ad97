package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabapcia/catapultcli/internal/account"

	"github.com/urfave/cli/v3"
)

// ErrInvalidInput is returned for flag or prompt values that cannot be used.
var ErrInvalidInput = fmt.Errorf("%w: invalid input", account.ErrConfiguration)

// invalid builds the user facing "enter a valid ..." error.
func invalid(what string) error {
	return fmt.Errorf("%w: enter a valid %s", ErrInvalidInput, what)
}

// Prompter asks for values a command was not given as flags.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Ask prints question and returns the trimmed answer. End of input counts
// as an empty answer.
func (p *Prompter) Ask(question string) (string, error) {
	if _, err := fmt.Fprint(p.out, question); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Only y or yes count as yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + "[y/n]: ")
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// stringOrAsk returns the flag value when set, the answer to question
// otherwise. Blank values fail with invalid(what).
func stringOrAsk(c *cli.Command, p *Prompter, flag, question, what string) (string, error) {
	value := c.String(flag)
	if !c.IsSet(flag) {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		value = answer
	}

	if value == "" {
		return "", invalid(what)
	}
	return value, nil
}

// boolOrConfirm returns the flag value when set, the answer to question
// otherwise.
func boolOrConfirm(c *cli.Command, p *Prompter, flag, question string) (bool, error) {
	if c.IsSet(flag) {
		return c.Bool(flag), nil
	}
	return p.Confirm(question)
}
