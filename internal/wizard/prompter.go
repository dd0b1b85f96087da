package wizard

import (
	"bufio"
	"io"
	"strings"

	apperr "invest-appointment/internal/errors"
)

// Prompter supplies operator input one line at a time. Implementations report
// ErrInterrupted when the operator abandons the session (EOF, Ctrl-C); the
// wizard unwinds on that error without touching storage.
type Prompter interface {
	Line(prompt string) (string, error)
}

// StdioPrompter reads operator input from a stream, echoing prompts to out.
type StdioPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewStdioPrompter creates a prompter over the given input and output streams.
func NewStdioPrompter(in io.Reader, out io.Writer) *StdioPrompter {
	return &StdioPrompter{reader: bufio.NewReader(in), out: out}
}

// Line prints the prompt and reads one line, trimmed of surrounding space.
func (p *StdioPrompter) Line(prompt string) (string, error) {
	if _, err := io.WriteString(p.out, prompt); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", apperr.ErrInterrupted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ScriptPrompter replays a fixed sequence of answers. Once the script runs
// out it reports ErrInterrupted, which doubles as a way to test abandonment.
type ScriptPrompter struct {
	answers []string
	pos     int
}

// NewScriptPrompter creates a prompter that replays answers in order.
func NewScriptPrompter(answers ...string) *ScriptPrompter {
	return &ScriptPrompter{answers: answers}
}

// Line returns the next scripted answer.
func (p *ScriptPrompter) Line(string) (string, error) {
	if p.pos >= len(p.answers) {
		return "", apperr.ErrInterrupted
	}
	ans := p.answers[p.pos]
	p.pos++
	return ans, nil
}
