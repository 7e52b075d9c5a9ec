package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompt collects free text from the operator. ok is false when the operator
// cancelled (closed input or entered nothing).
type Prompt interface {
	Ask(label string) (answer string, ok bool)
}

type readerPrompt struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewReaderPrompt returns a Prompt reading lines from in and writing labels
// to out. The terminal binary binds it to stdin/stdout.
func NewReaderPrompt(in io.Reader, out io.Writer) Prompt {
	return &readerPrompt{in: bufio.NewScanner(in), out: out}
}

func (p *readerPrompt) Ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		return "", false
	}
	answer := strings.TrimSpace(p.in.Text())
	if answer == "" {
		return "", false
	}
	return answer, true
}

// agePrompt adapts a Prompt to the engine's age gate. Cancelled or
// non-numeric input reads as a rejection, never as age 0.
type agePrompt struct {
	prompt Prompt
}

func (a agePrompt) CustomerAge() (int, bool) {
	answer, ok := a.prompt.Ask("Enter the customer's age: ")
	if !ok {
		return 0, false
	}
	age, err := strconv.Atoi(answer)
	if err != nil || age < 0 {
		return 0, false
	}
	return age, true
}
