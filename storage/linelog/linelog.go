package linelog

import (
	"bytes"

	"github.com/juju/errors"

	customerr "github.com/nagarajRPoojari/applog/storage/errors"
	fio "github.com/nagarajRPoojari/applog/storage/io"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

const DefaultLineBufferSize = 512

type LineLogOpts struct {
	// LineBufferSize bounds a looked up line, content may take LineBufferSize-1 bytes
	LineBufferSize int
}

// LineLog is a newline delimited, append-only text log addressed by 1-based
// line number. Lookups scan from the start of the file.
type LineLog struct {
	path string
	opts LineLogOpts
}

func NewLineLog(path string, opts LineLogOpts) *LineLog {
	if opts.LineBufferSize <= 1 {
		opts.LineBufferSize = DefaultLineBufferSize
	}
	return &LineLog{path: path, opts: opts}
}

func (t *LineLog) Path() string {
	return t.path
}

// Append writes line followed by a single '\n'.
func (t *LineLog) Append(line []byte) error {
	if bytes.IndexByte(line, '\n') >= 0 {
		return errors.NotValidf("line containing newline")
	}

	data := make([]byte, 0, len(line)+1)
	data = append(data, line...)
	data = append(data, '\n')

	fw, err := fio.GetFileManager().OpenForAppend(t.path)
	if err != nil {
		return errors.Trace(err)
	}
	if err := fw.Write(data); err != nil {
		fw.Close()
		return errors.Trace(err)
	}
	return errors.Trace(fw.Close())
}

// ReadNth returns the content of line n without its newline. A final line
// lacking a newline still counts as long as it is non-empty.
func (t *LineLog) ReadNth(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.NotValidf("line number %d", n)
	}

	fr, err := fio.GetFileManager().OpenForRead(t.path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer fr.Close()

	payload := fr.GetPayload()
	limit := t.opts.LineBufferSize - 1

	// skip the n-1 lines before the target
	current := 1
	for current < n {
		i := bytes.IndexByte(payload, '\n')
		if i < 0 {
			return nil, errors.NotFoundf("line %d in %s", n, t.path)
		}
		payload = payload[i+1:]
		current++
	}

	end := bytes.IndexByte(payload, '\n')
	if end < 0 {
		if len(payload) == 0 {
			return nil, errors.NotFoundf("line %d in %s", n, t.path)
		}
		end = len(payload)
	}

	// whole target line has been consumed at this point
	if end > limit {
		log.Debugf("line %d of %s is %d bytes, buffer holds %d", n, t.path, end, limit)
		return nil, errors.Annotatef(customerr.ErrTooLong, "line %d exceeds %d bytes", n, limit)
	}

	line := make([]byte, end)
	copy(line, payload[:end])
	return line, nil
}
