package main

import (
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"

	"github.com/nagarajRPoojari/applog/config"
	"github.com/nagarajRPoojari/applog/storage"
	customerr "github.com/nagarajRPoojari/applog/storage/errors"
	"github.com/nagarajRPoojari/applog/storage/recordlog"
	"github.com/nagarajRPoojari/applog/storage/utils"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
	"github.com/nagarajRPoojari/applog/storage/walker"
)

const usage = `Usage: mydu [-h] [<directory>]
Usage: mydu -b
`

const dumpHeader = "--- Contenido del archivo binario ---"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
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

	human := len(args) > 0 && args[0] == "-h"
	if human {
		args = args[1:]
	}

	switch {
	case len(args) == 0:
		err = du(st.Records, ".", cfg.MaxPathLen, human, stdout)
	case len(args) == 1 && args[0] == "-b" && !human:
		err = dump(st.Records, stdout)
	case len(args) == 1 && args[0] != "-b":
		err = du(st.Records, args[0], cfg.MaxPathLen, human, stdout)
	default:
		fmt.Fprint(stderr, usage)
		return 1
	}

	if err != nil {
		log.Debugf("%s", errors.ErrorStack(err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// du walks target, then records & prints target itself. The walk already
// recorded every subdirectory. human only changes what is printed, records
// always hold blocks.
func du(records *recordlog.RecordLog, target string, maxPathLen int, human bool, stdout io.Writer) error {
	info, err := os.Lstat(target)
	if err != nil || !info.IsDir() {
		return errors.Errorf("%s: not a directory", target)
	}

	w := walker.NewWalker(walker.WalkerOpts{
		Sink:          records,
		Out:           stdout,
		HumanReadable: human,
		MaxPathLen:    maxPathLen,
	})
	total, err := w.Walk(target)
	if err != nil {
		return err
	}

	if err := records.Append(utils.Blocks(total), target); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\t%s\n", walker.FormatSize(total, human), target)
	return err
}

// dump prints every record. The header goes out once the log opened, so a
// missing log prints nothing on stdout.
func dump(records *recordlog.RecordLog, stdout io.Writer) error {
	started := false
	start := func() {
		if !started {
			fmt.Fprintln(stdout, dumpHeader)
			started = true
		}
	}

	for rec, err := range records.Records() {
		if err != nil {
			if errors.Is(err, customerr.ErrCorruption) {
				start()
			}
			return err
		}
		start()
		fmt.Fprintf(stdout, "%d\t%s\n", rec.SizeKB, rec.Path)
	}
	start()
	return nil
}
