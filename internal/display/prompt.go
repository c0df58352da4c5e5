package display

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidInput is the validation error shown when an answer cannot be
// parsed.
var ErrInvalidInput = errors.New("Please, enter a valid value.")

// Prompter asks the user questions. Ask keeps asking until validate accepts
// the answer, so callers only ever see valid input.
type Prompter interface {
	Ask(ctx context.Context, question string, validate func(string) error) (string, error)
	Say(msg string)
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	out     io.Writer
	scanner *bufio.Scanner

	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter reads from in and writes questions and messages to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		out:     out,
		scanner: bufio.NewScanner(in),
		lines:   make(chan lineResult),
	}
}

// Say writes msg on its own line.
func (p *LinePrompter) Say(msg string) {
	fmt.Fprintln(p.out, msg)
}

// Ask writes question and reads lines until validate returns nil. Each
// rejection is printed before asking again.
func (p *LinePrompter) Ask(ctx context.Context, question string, validate func(string) error) (string, error) {
	for {
		fmt.Fprint(p.out, question)
		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if validate == nil {
			return line, nil
		}
		if err := validate(line); err != nil {
			p.Say(err.Error())
			continue
		}
		return line, nil
	}
}

// readLine waits for the next line without blocking cancellation.
func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(func() { go p.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}
		return r.line, r.err
	}
}

func (p *LinePrompter) scan() {
	defer close(p.lines)
	for p.scanner.Scan() {
		p.lines <- lineResult{line: p.scanner.Text()}
	}
	if err := p.scanner.Err(); err != nil {
		p.lines <- lineResult{err: err}
	}
}

// AskInt asks for an integer. check, when set, rejects out of range values
// with its own message.
func AskInt(ctx context.Context, p Prompter, question string, check func(int) error) (int, error) {
	var value int
	_, err := p.Ask(ctx, question, func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return ErrInvalidInput
		}
		if check != nil {
			if err := check(n); err != nil {
				return err
			}
		}
		value = n
		return nil
	})
	return value, err
}

// Positive rejects zero and negative numbers.
func Positive(n int) error {
	if n <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// AskYesNo asks a yes or no question. It accepts 1/0, y/n and yes/no.
func AskYesNo(ctx context.Context, p Prompter, question string) (bool, error) {
	return askChoice(ctx, p, question+" Yes(1) or No(0): ",
		[]string{"1", "y", "yes"}, []string{"0", "n", "no"})
}

// AskHitStay asks whether to take another card. It accepts 1/0, h/s and
// hit/stay/stand.
func AskHitStay(ctx context.Context, p Prompter) (bool, error) {
	return askChoice(ctx, p, "Hit(1) or Stay(0)? ",
		[]string{"1", "h", "hit"}, []string{"0", "s", "stay", "stand"})
}

func askChoice(ctx context.Context, p Prompter, question string, yes, no []string) (bool, error) {
	var answer bool
	_, err := p.Ask(ctx, question, func(s string) error {
		s = strings.ToLower(s)
		for _, y := range yes {
			if s == y {
				answer = true
				return nil
			}
		}
		for _, n := range no {
			if s == n {
				answer = false
				return nil
			}
		}
		return ErrInvalidInput
	})
	return answer, err
}
