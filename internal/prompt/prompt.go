// Package prompt implements the interactive question helpers used by the
// wizard. All readers and writers are injected so the dialogs are
// testable without a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// YesNo asks until the answer is recognizably yes or no.
func (p *Prompter) YesNo(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s (y/n): ", question)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(p.out, "Please answer with 'y' or 'n'.")
		}
	}
}

// Choice asks until one of the listed values is entered.
func (p *Prompter) Choice(question string, choices []string) (string, error) {
	joined := strings.Join(choices, "/")
	for {
		fmt.Fprintf(p.out, "%s (%s): ", question, joined)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		for _, choice := range choices {
			if strings.EqualFold(answer, choice) {
				return choice, nil
			}
		}
		fmt.Fprintf(p.out, "Please choose one of: %s.\n", joined)
	}
}

// Input returns the entered value, or fallback when the line is empty.
func (p *Prompter) Input(question, fallback string) (string, error) {
	fmt.Fprintf(p.out, "%s [default: %s]: ", question, fallback)
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// Line asks a free-form question with no default.
func (p *Prompter) Line(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
