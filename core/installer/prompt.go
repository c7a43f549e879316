package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ANSI styles for interactive output.
const (
	StyleReset  = "\033[0m"
	StyleBold   = "\033[1m"
	StyleHeader = "\033[95m"
	StyleInfo   = "\033[96m"
	StyleOK     = "\033[92m"
	StyleWarn   = "\033[93m"
	StyleFail   = "\033[91m"
)

// Prompter wraps an input stream with the question helpers the installer
// uses. Reading from an io.Reader keeps the parsing testable.
type Prompter struct {
	reader *bufio.Reader
}

func NewPrompter(r io.Reader) *Prompter {
	return &Prompter{reader: bufio.NewReader(r)}
}

func Header(format string, args ...interface{}) {
	fmt.Printf(StyleHeader+StyleBold+format+StyleReset+"\n", args...)
}

func Info(format string, args ...interface{}) {
	fmt.Printf(StyleInfo+format+StyleReset+"\n", args...)
}

func Success(format string, args ...interface{}) {
	fmt.Printf(StyleOK+format+StyleReset+"\n", args...)
}

func Warn(format string, args ...interface{}) {
	fmt.Printf(StyleWarn+format+StyleReset+"\n", args...)
}

func Fail(format string, args ...interface{}) {
	fmt.Printf(StyleFail+format+StyleReset+"\n", args...)
}

// Ask prints the question and returns the trimmed answer, or def when the
// answer is empty.
func (p *Prompter) Ask(question, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", question, def)
	} else {
		fmt.Printf("%s: ", question)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def
	}

	return answer
}

// AskRequired re-asks until a non-empty answer is given.
func (p *Prompter) AskRequired(question string) string {
	for {
		if answer := p.Ask(question, ""); answer != "" {
			return answer
		}
		Warn("An answer is required.")
	}
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}

	answer := p.Ask(fmt.Sprintf("%s %s", question, suffix), "")
	return ParseYesNo(answer, def)
}

// ParseYesNo interprets a yes/no answer, falling back to def.
func ParseYesNo(answer string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}

// Choose presents a numbered menu and returns the chosen option, falling
// back to def on invalid input.
func (p *Prompter) Choose(question string, options []string, def string) string {
	for i, option := range options {
		fmt.Printf("  %d. %s\n", i+1, option)
	}

	answer := p.Ask(fmt.Sprintf("%s [number, default '%s']", question, def), "")
	return ParseChoice(answer, options, def)
}

// ParseChoice resolves a 1-based menu answer against the option list; it
// also accepts the option name itself. Anything else yields def.
func ParseChoice(answer string, options []string, def string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}

	if idx, err := strconv.Atoi(answer); err == nil {
		if idx >= 1 && idx <= len(options) {
			return options[idx-1]
		}
		return def
	}

	for _, option := range options {
		if strings.EqualFold(answer, option) {
			return option
		}
	}

	return def
}

// AskPassword reads a password twice without echo, repeating until both
// entries match.
func (p *Prompter) AskPassword(prompt string) (string, error) {
	for {
		fmt.Printf("%s: ", prompt)
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %s", err)
		}

		fmt.Print("Confirm password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %s", err)
		}

		if string(password) == string(confirm) {
			if len(password) == 0 {
				Warn("Empty passwords are not allowed.")
				continue
			}
			return string(password), nil
		}

		Fail("Passwords do not match. Please try again.")
	}
}
