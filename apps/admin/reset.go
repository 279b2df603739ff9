package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	readLineFunc   = readStdinLine   // mockable
)

func readStdinLine() (string, error) {
	return bufio.NewReader(os.Stdin).ReadString('\n')
}

// reset erases all records. Without -yes, the user must type "yes" at an interactive prompt.
func (cli *commandLine) reset(yes bool) error {
	confirmed := yes
	if !confirmed && isTerminalFunc(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprint(cli.out, "This will erase ALL students, subjects and marks. Type 'yes' to continue: ")
		answer, err := readLineFunc()
		if err != nil {
			return err
		}
		confirmed = strings.EqualFold(strings.TrimSpace(answer), "yes")
	}

	if err := cli.recordSvc.Reset(context.Background(), confirmed); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, "all data erased")
	return nil
}
