package walker

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/juju/errors"

	customerr "github.com/nagarajRPoojari/applog/storage/errors"
	"github.com/nagarajRPoojari/applog/storage/utils"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

// DefaultMaxPathLen matches PATH_MAX on linux, a joined path must stay below it.
const DefaultMaxPathLen = 4096

// RecordAppender receives one record per finished subdirectory.
type RecordAppender interface {
	Append(sizeKB int64, path string) error
}

type WalkerOpts struct {
	Sink RecordAppender

	// Out receives a "{kb}\t{path}" progress line per subdirectory, nil discards
	Out io.Writer

	// HumanReadable prints progress sizes as "1.1 kB" instead of blocks.
	// Records always hold blocks.
	HumanReadable bool

	MaxPathLen int
}

// Walker sums the bytes under a directory tree. Symbolic links are never
// followed, they count with their own lstat size.
type Walker struct {
	opts WalkerOpts
}

func NewWalker(opts WalkerOpts) *Walker {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.MaxPathLen <= 0 {
		opts.MaxPathLen = DefaultMaxPathLen
	}
	return &Walker{opts: opts}
}

// frame is one directory being scanned, entries are read up front so no
// directory handle outlives its open call.
type frame struct {
	path    string
	entries []os.DirEntry
	next    int
	total   int64
}

// Walk returns the byte total of root. Subdirectories are reported in
// post-order, each one as soon as its own scan completes; root itself is left
// to the caller. The first failure aborts the walk and records already
// appended stay where they are.
//
// Pending directories live on an explicit stack, so depth is limited by
// memory rather than goroutine stack.
func (t *Walker) Walk(root string) (int64, error) {
	emitted := 0
	total, err := t.walk(root, &emitted)
	if err != nil {
		log.Warnf("walk of %s aborted, %d subdirectory records already appended: %v", root, emitted, err)
		return 0, err
	}
	return total, nil
}

func (t *Walker) walk(root string, emitted *int) (int64, error) {
	top, err := t.open(root)
	if err != nil {
		return 0, err
	}

	stack := []*frame{top}
	for {
		cur := stack[len(stack)-1]

		if cur.next == len(cur.entries) {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return cur.total, nil
			}
			stack[len(stack)-1].total += cur.total
			if err := t.emit(cur); err != nil {
				return 0, err
			}
			*emitted++
			continue
		}

		entry := cur.entries[cur.next]
		cur.next++

		child := utils.JoinPath(cur.path, entry.Name())
		if len(child) >= t.opts.MaxPathLen {
			return 0, customerr.PathTooLong("walk", child, t.opts.MaxPathLen-1)
		}

		info, err := os.Lstat(child)
		if err != nil {
			return 0, customerr.IO("lstat", child, err)
		}

		if info.IsDir() {
			sub, err := t.open(child)
			if err != nil {
				return 0, err
			}
			stack = append(stack, sub)
			continue
		}
		cur.total += info.Size()
	}
}

func (t *Walker) open(path string) (*frame, error) {
	// ReadDir never returns "." or ".."
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, customerr.NotOpenable(path, err)
	}
	return &frame{path: path, entries: entries}, nil
}

func (t *Walker) emit(f *frame) error {
	kb := utils.Blocks(f.total)
	log.Debugf("walked %s: %s in %d entries", f.path, humanize.Bytes(uint64(f.total)), len(f.entries))

	if t.opts.Sink != nil {
		if err := t.opts.Sink.Append(kb, f.path); err != nil {
			return errors.Annotatef(err, "record %s", f.path)
		}
	}
	if _, err := fmt.Fprintf(t.opts.Out, "%s\t%s\n", FormatSize(f.total, t.opts.HumanReadable), f.path); err != nil {
		return customerr.IO("write", "progress", err)
	}
	return nil
}

// FormatSize renders a byte total the way progress lines show it, in blocks or,
// when human is set, as a humanize SI size.
func FormatSize(bytes int64, human bool) string {
	if human {
		return humanize.Bytes(uint64(bytes))
	}
	return strconv.FormatInt(utils.Blocks(bytes), 10)
}
