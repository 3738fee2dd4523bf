package recordlog

import (
	"iter"
	"strings"

	"github.com/juju/errors"

	customerr "github.com/nagarajRPoojari/applog/storage/errors"
	fio "github.com/nagarajRPoojari/applog/storage/io"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

type RecordLogOpts struct {
	PathFieldLen int
}

// RecordLog is an append-only file of fixed width SizeRecords. The file length
// is always a multiple of the record width unless something tore a record.
type RecordLog struct {
	path string
	opts RecordLogOpts
}

func NewRecordLog(path string, opts RecordLogOpts) *RecordLog {
	if opts.PathFieldLen <= 0 {
		opts.PathFieldLen = DefaultPathFieldLen
	}
	return &RecordLog{path: path, opts: opts}
}

func (t *RecordLog) Path() string {
	return t.path
}

func (t *RecordLog) Width() int {
	return RecordWidth(t.opts.PathFieldLen)
}

// Append writes one record in a single buffer. Invalid paths are rejected before
// the file is opened, so a rejected append never changes the file.
func (t *RecordLog) Append(sizeKB int64, path string) error {
	if len(path) >= t.opts.PathFieldLen {
		return customerr.PathTooLong("append", path, t.opts.PathFieldLen-1)
	}
	if strings.IndexByte(path, 0) >= 0 {
		return errors.NotValidf("path with NUL byte")
	}

	data, err := EncodeRecord(SizeRecord{SizeKB: sizeKB, Path: path}, t.opts.PathFieldLen)
	if err != nil {
		return errors.Trace(err)
	}

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

// Records iterates the log from the start. Each range re-opens the file, a
// partial trailing record is reported after every complete record before it.
func (t *RecordLog) Records() iter.Seq2[SizeRecord, error] {
	return func(yield func(SizeRecord, error) bool) {
		fr, err := fio.GetFileManager().OpenForRead(t.path)
		if err != nil {
			yield(SizeRecord{}, errors.Trace(err))
			return
		}
		defer fr.Close()

		payload := fr.GetPayload()
		width := t.Width()

		for off := 0; off < len(payload); off += width {
			if rest := len(payload) - off; rest < width {
				log.Errorf("%s: torn record at offset %d, %d of %d bytes", t.path, off, rest, width)
				yield(SizeRecord{}, errors.Annotatef(customerr.ErrCorruption,
					"%s: %d trailing bytes at offset %d, record is %d", t.path, rest, off, width))
				return
			}

			rec, err := DecodeRecord(payload[off:off+width], t.opts.PathFieldLen)
			if !yield(rec, errors.Trace(err)) || err != nil {
				return
			}
		}
	}
}

// ReadAll collects every record, failing on the first error.
func (t *RecordLog) ReadAll() ([]SizeRecord, error) {
	var records []SizeRecord
	for rec, err := range t.Records() {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
