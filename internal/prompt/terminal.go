package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "flowcellcli/internal/errors"
)

// Terminal asks questions line by line on a text stream.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a terminal prompter reading answers from in
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question until it gets y, yes, n or no.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := t.ask(ctx, question+" [y/N] ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// AskFloat asks until the answer parses as a number.
func (t *Terminal) AskFloat(ctx context.Context, question string) (float64, error) {
	for {
		answer, err := t.ask(ctx, question)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(answer, 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(t.out, "%q is not a number.\n", answer)
	}
}

// AskString returns the trimmed answer, possibly empty.
func (t *Terminal) AskString(ctx context.Context, question string) (string, error) {
	return t.ask(ctx, question+" ")
}

// Notify prints a notice
func (t *Terminal) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintln(t.out, message)
	return err
}

func (t *Terminal) ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(t.out, question); err != nil {
		return "", apperrors.NewPromptError("failed to write prompt", err)
	}
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", apperrors.NewPromptError("no answer to "+strings.TrimSpace(question), apperrors.ErrPromptCancelled)
		}
		return "", apperrors.NewPromptError("failed to read answer", err)
	}
	return strings.TrimSpace(line), nil
}
