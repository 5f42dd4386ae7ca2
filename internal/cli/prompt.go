package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

type scopeChoice int

const (
	scopeAll scopeChoice = iota + 1
	scopeOU
	scopeGroup
)

// errInputClosed is returned when stdin closes mid-prompt.
var errInputClosed = errors.New("input closed before the prompt was answered")

func readLine(in *bufio.Scanner) (string, error) {
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(in.Text()), nil
}

// promptScopeChoice shows the scope menu and reads a choice,
// re-prompting on invalid input.
func promptScopeChoice(in *bufio.Scanner, out io.Writer) (scopeChoice, error) {
	for {
		fmt.Fprintln(out, "Select user scope:")
		fmt.Fprintln(out, "  1) all enabled users")
		fmt.Fprintln(out, "  2) users in an organizational unit")
		fmt.Fprintln(out, "  3) members of a group")
		fmt.Fprint(out, "> ")

		line, err := readLine(in)
		if err != nil {
			return 0, err
		}
		switch line {
		case "1":
			return scopeAll, nil
		case "2":
			return scopeOU, nil
		case "3":
			return scopeGroup, nil
		}
		fmt.Fprintln(out, "enter 1, 2, or 3")
	}
}

// promptScopeName reads and validates an OU or group name,
// re-prompting until the input passes validation.
func promptScopeName(in *bufio.Scanner, out io.Writer, what string) (string, error) {
	for {
		fmt.Fprintf(out, "Enter %s name or DN: ", what)

		line, err := readLine(in)
		if err != nil {
			return "", err
		}
		name, err := SanitizeScopeName(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return name, nil
	}
}

// promptExport asks whether to write the export file. Default is no.
func promptExport(in *bufio.Scanner, out io.Writer) (bool, error) {
	for {
		fmt.Fprint(out, "Export this report? [y/N] ")

		line, err := readLine(in)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
		fmt.Fprintln(out, "enter y or n")
	}
}
