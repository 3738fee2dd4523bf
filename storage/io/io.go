package io

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/juju/errors"

	customerr "github.com/nagarajRPoojari/applog/storage/errors"
)

type FileReader struct {
	payload mmap.MMap
	file    *os.File
}

// GetPayload returns the mapped file content. It is only valid until Close,
// callers must copy anything they keep.
func (t *FileReader) GetPayload() []byte {
	return t.payload
}

func (t *FileReader) Close() error {
	if t.payload != nil {
		if err := t.payload.Unmap(); err != nil {
			t.file.Close()
			return customerr.IO("munmap", t.file.Name(), err)
		}
	}
	return t.file.Close()
}

type FileWriter struct {
	file *os.File
	lock *sync.Mutex
}

func (t *FileWriter) Close() error {
	defer t.lock.Unlock()
	if err := t.file.Close(); err != nil {
		return customerr.IO("close", t.file.Name(), err)
	}
	return nil
}

// Write pushes all of data to the file & fsyncs it.
func (t *FileWriter) Write(data []byte) error {
	if err := writeFull(t.file, data); err != nil {
		return customerr.IO("write", t.file.Name(), err)
	}

	// Sync call to flush data to disk
	if err := t.file.Sync(); err != nil {
		return customerr.IO("fsync", t.file.Name(), err)
	}
	return nil
}

// writeFull retries partial writes until data is exhausted. A write that
// makes no progress or reports an error is fatal.
func writeFull(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n <= 0 {
			return customerr.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}

type FileManager struct {
	lockMap map[string]*sync.Mutex

	// globalMu prevents multiple goroutines creating same lock
	globalMu sync.Mutex
}

func newFileManager() *FileManager {
	return &FileManager{lockMap: map[string]*sync.Mutex{}}
}

var singleInstance *FileManager
var once sync.Once

func GetFileManager() *FileManager {
	once.Do(func() { singleInstance = newFileManager() })
	return singleInstance
}

func (t *FileManager) getOrCreateLock(path string) *sync.Mutex {
	t.globalMu.Lock()
	defer t.globalMu.Unlock()

	key := filepath.Clean(path)
	lock, ok := t.lockMap[key]
	if !ok {
		lock = &sync.Mutex{}
		t.lockMap[key] = lock
	}
	return lock
}

// OpenForRead maps the whole file read-only. Every call maps afresh since the
// logs only grow and a cached mapping would miss later appends.
//
// empty files can't be opened through mmap, they come back with a nil payload
func (t *FileManager) OpenForRead(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, customerr.IO("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, customerr.IO("stat", path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, customerr.IO("open", path, errors.NotValidf("directory %q as log", path))
	}
	if info.Size() == 0 {
		return &FileReader{file: f}, nil
	}

	mmapData, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, customerr.IO("mmap", path, err)
	}

	return &FileReader{payload: mmapData, file: f}, nil
}

// OpenForAppend opens path in create-if-absent, append-only mode. Writers of the
// same path within this process are serialised until Close; other processes
// only get O_APPEND guarantees.
func (t *FileManager) OpenForAppend(path string) (*FileWriter, error) {
	lock := t.getOrCreateLock(path)
	lock.Lock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		lock.Unlock()
		return nil, customerr.IO("open", path, err)
	}

	return &FileWriter{file: f, lock: lock}, nil
}
