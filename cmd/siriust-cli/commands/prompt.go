package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) string {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil {
		// stdin is gone, there is nothing sensible left to do
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return strings.TrimSpace(line)
}

func promptPassword(label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}

	fmt.Print(label)
	password, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return string(password)
}

func promptYesNo(label string) bool {
	for {
		switch prompt(label) {
		case "y", "Y":
			return true
		case "n", "N":
			return false
		default:
			fmt.Println("Invalid answer, expected y or n.")
		}
	}
}

// promptChoice keeps asking until the answer is an integer in
// [min, max]
func promptChoice(label string, min, max int) int {
	for {
		answer, err := strconv.Atoi(prompt(label))
		if err != nil || answer < min || answer > max {
			fmt.Println("Invalid answer.")
			continue
		}
		return answer
	}
}
