/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package login

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/CardScan/CardScan/cli/global"
)

var ErrNoInput = errors.New("no input available")

// Prompter fills in missing values from the environment and then the terminal
type Prompter struct {
	in           *bufio.Reader
	out          io.Writer
	readPassword func() (string, error)
}

// NewPrompter reads from stdin. The password is read without echo when
// stdin is a terminal.
func NewPrompter() *Prompter {
	p := NewPrompterFrom(os.Stdin, os.Stderr)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			_, _ = fmt.Fprintln(p.out)
			return string(b), err
		}
	}
	return p
}

// NewPrompterFrom reads all answers, including the password, as lines from in
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	p.readPassword = p.readLine
	return p
}

// Email returns value, CARDSCAN_EMAIL, or the answer to a prompt
func (p *Prompter) Email(value string) (string, error) {
	return p.resolve(value, global.EnvEmail, "Email: ", p.readLine)
}

// Password returns value, CARDSCAN_PASSWORD, or the answer to a prompt
func (p *Prompter) Password(value string) (string, error) {
	return p.resolve(value, global.EnvPassword, "Password: ", p.readPassword)
}

// NewPassword returns value or a password read from the terminal. The
// environment is not consulted since CARDSCAN_PASSWORD holds the old one.
func (p *Prompter) NewPassword(value string) (string, error) {
	return p.resolve(value, "", "New password: ", p.readPassword)
}

// Ask always prompts
func (p *Prompter) Ask(question string) (string, error) {
	return p.resolve("", "", question, p.readLine)
}

func (p *Prompter) resolve(value, env, prompt string, read func() (string, error)) (string, error) {
	if value != "" {
		return value, nil
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}
	_, _ = fmt.Fprint(p.out, prompt)
	return read()
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
