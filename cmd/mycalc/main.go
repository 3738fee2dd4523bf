package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/kballard/go-shellquote"

	"github.com/nagarajRPoojari/applog/calc"
	"github.com/nagarajRPoojari/applog/config"
	"github.com/nagarajRPoojari/applog/storage"
	"github.com/nagarajRPoojari/applog/storage/linelog"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

const usage = `Usage: mycalc <num1> <op> <num2>
Usage: mycalc -b <line_number>
Usage: mycalc -i
`

const errUsage = errors.ConstError("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: config: %v\n", err)
		return 1
	}
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "Error: log level: %v\n", err)
		return 1
	}
	defer log.Sync()

	st := storage.NewStorage(cfg.StorageOpts())

	if len(args) == 1 && args[0] == "-i" {
		return interactive(st.Lines, stdin, stdout, stderr)
	}
	if err := execute(st.Lines, args, stdout); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

func execute(lines *linelog.LineLog, args []string, stdout io.Writer) error {
	switch {
	case len(args) == 2 && args[0] == "-b":
		return lookup(lines, args[1], stdout)
	case len(args) == 3:
		return compute(lines, args[0], args[1], args[2], stdout)
	}
	return errUsage
}

// compute logs the operation only once it evaluated cleanly
func compute(lines *linelog.LineLog, num1, op, num2 string, stdout io.Writer) error {
	operation, err := calc.Evaluate(num1, op, num2)
	if err != nil {
		return err
	}

	line := operation.String()
	if err := lines.Append([]byte(line)); err != nil {
		return err
	}
	log.Debugf("appended %q to %s", line, lines.Path())

	_, err = fmt.Fprintln(stdout, line)
	return err
}

func lookup(lines *linelog.LineLog, text string, stdout io.Writer) error {
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 {
		return errors.NotValidf("line number %q", text)
	}

	content, err := lines.ReadNth(n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, calc.FormatLookup(n, content))
	return err
}

// interactive runs one command per input line until "exit" or EOF. Failed
// commands are reported and the loop goes on, the exit status remembers them.
func interactive(lines *linelog.LineLog, stdin io.Reader, stdout, stderr io.Writer) int {
	status := 0
	scanner := bufio.NewScanner(stdin)
	prompt := isTerminal(stdin)

	for {
		if prompt {
			fmt.Fprint(stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			break
		}

		words, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			status = 1
			continue
		}
		if err := execute(lines, words, stdout); err != nil {
			report(stderr, err)
			status = 1
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return status
}

// isTerminal is false for pipes & files, so piped output carries only results.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func report(stderr io.Writer, err error) {
	if errors.Is(err, errUsage) {
		fmt.Fprint(stderr, usage)
		return
	}
	log.Debugf("%s", errors.ErrorStack(err))
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
