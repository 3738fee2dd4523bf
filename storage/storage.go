package storage

import (
	"github.com/nagarajRPoojari/applog/storage/linelog"
	"github.com/nagarajRPoojari/applog/storage/recordlog"
)

const (
	DefaultLineLogName   = "mycalc.log"
	DefaultRecordLogName = "mydu.bin"
)

type StorageOpts struct {
	LineLogPath    string
	RecordLogPath  string
	LineBufferSize int
	PathFieldLen   int
}

// Storage groups the two logs a process works with.
type Storage struct {
	Lines   *linelog.LineLog
	Records *recordlog.RecordLog
}

func NewStorage(opts StorageOpts) *Storage {
	if opts.LineLogPath == "" {
		opts.LineLogPath = DefaultLineLogName
	}
	if opts.RecordLogPath == "" {
		opts.RecordLogPath = DefaultRecordLogName
	}
	return &Storage{
		Lines:   linelog.NewLineLog(opts.LineLogPath, linelog.LineLogOpts{LineBufferSize: opts.LineBufferSize}),
		Records: recordlog.NewRecordLog(opts.RecordLogPath, recordlog.RecordLogOpts{PathFieldLen: opts.PathFieldLen}),
	}
}
