package walker

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerr "github.com/nagarajRPoojari/applog/storage/errors"
	"github.com/nagarajRPoojari/applog/storage/recordlog"
	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

type call struct {
	sizeKB int64
	path   string
}

type recordingSink struct {
	calls  []call
	failAt int
}

func (t *recordingSink) Append(sizeKB int64, path string) error {
	t.calls = append(t.calls, call{sizeKB, path})
	if t.failAt > 0 && len(t.calls) == t.failAt {
		return fmt.Errorf("sink full")
	}
	return nil
}

func writeFile(t *testing.T, path string, size int) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0644))
}

func TestWalker_Walk(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), 100)
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 1000)

	sink := &recordingSink{}
	out := &bytes.Buffer{}
	total, err := NewWalker(WalkerOpts{Sink: sink, Out: out}).Walk(root)
	require.NoError(t, err)

	assert.Equal(t, int64(1100), total)
	sub := root + "/sub"
	assert.Equal(t, []call{{2, sub}}, sink.calls)
	assert.Equal(t, "2\t"+sub+"\n", out.String())
}

func TestWalker_PostOrder(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "deep.bin"), 513)
	writeFile(t, filepath.Join(root, "a", "mid.bin"), 10)
	require.NoError(t, os.Mkdir(filepath.Join(root, "c"), 0755))
	writeFile(t, filepath.Join(root, "top.bin"), 1)

	sink := &recordingSink{}
	total, err := NewWalker(WalkerOpts{Sink: sink}).Walk(root)
	require.NoError(t, err)

	assert.Equal(t, int64(524), total)
	assert.Equal(t, []call{
		{2, root + "/a/b"},
		{2, root + "/a"},
		{0, root + "/c"},
	}, sink.calls)
}

func TestWalker_DoesNotFollowSymlinks(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "huge.bin"), 1<<16)
	writeFile(t, filepath.Join(root, "f.txt"), 10)

	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink(target, link))
	linfo, err := os.Lstat(link)
	require.NoError(t, err)

	sink := &recordingSink{}
	total, err := NewWalker(WalkerOpts{Sink: sink}).Walk(root)
	require.NoError(t, err)

	assert.Equal(t, 10+linfo.Size(), total)
	assert.Less(t, total, int64(1<<16))
	assert.Empty(t, sink.calls)
}

func TestWalker_SymlinkCycle(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "loop"), 0755))
	require.NoError(t, os.Symlink("..", filepath.Join(root, "loop", "up")))

	sink := &recordingSink{}
	_, err := NewWalker(WalkerOpts{Sink: sink}).Walk(root)
	require.NoError(t, err)
	assert.Len(t, sink.calls, 1)
}

func TestWalker_RootNotOpenable(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	_, err := NewWalker(WalkerOpts{}).Walk(root)
	assert.ErrorIs(t, err, customerr.ErrNotOpenable)
	assert.Contains(t, err.Error(), root)

	file := filepath.Join(t.TempDir(), "plain")
	writeFile(t, file, 1)
	_, err = NewWalker(WalkerOpts{}).Walk(file)
	assert.ErrorIs(t, err, customerr.ErrNotOpenable)
}

func TestWalker_PathTooLong(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "short"), 1)
	writeFile(t, filepath.Join(root, "sub", strings.Repeat("n", 40)), 1)

	sink := &recordingSink{}
	_, err := NewWalker(WalkerOpts{Sink: sink, MaxPathLen: len(root) + 20}).Walk(root)
	assert.ErrorIs(t, err, customerr.ErrPathTooLong)
	assert.Empty(t, sink.calls)
}

func TestWalker_AbortKeepsEarlierRecords(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	for _, d := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, d, "f"), 600)
	}

	rl := recordlog.NewRecordLog(filepath.Join(t.TempDir(), "mydu.bin"), recordlog.RecordLogOpts{})
	sink := &failingAfter{RecordLog: rl, left: 2}
	_, err := NewWalker(WalkerOpts{Sink: sink}).Walk(root)
	require.Error(t, err)

	got, err := rl.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []recordlog.SizeRecord{{SizeKB: 2, Path: root + "/a"}, {SizeKB: 2, Path: root + "/b"}}, got)
}

type failingAfter struct {
	*recordlog.RecordLog
	left int
}

func (t *failingAfter) Append(sizeKB int64, path string) error {
	if t.left == 0 {
		return fmt.Errorf("disk full")
	}
	t.left--
	return t.RecordLog.Append(sizeKB, path)
}

func TestWalker_RecordPathTooLongAborts(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, strings.Repeat("d", 60)), 0755))

	rl := recordlog.NewRecordLog(filepath.Join(t.TempDir(), "mydu.bin"), recordlog.RecordLogOpts{PathFieldLen: 32})
	_, err := NewWalker(WalkerOpts{Sink: rl}).Walk(root)
	assert.ErrorIs(t, err, customerr.ErrPathTooLong)
}

func TestWalker_TrailingSlashRoot(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0755))

	sink := &recordingSink{}
	_, err := NewWalker(WalkerOpts{Sink: sink}).Walk(root + "/")
	require.NoError(t, err)
	assert.Equal(t, []call{{0, root + "/sub"}}, sink.calls)
}

func TestWalker_HumanReadableProgress(t *testing.T) {
	log.Disable()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "b.txt"), 1500)

	sink := &recordingSink{}
	out := &bytes.Buffer{}
	_, err := NewWalker(WalkerOpts{Sink: sink, Out: out, HumanReadable: true}).Walk(root)
	require.NoError(t, err)

	assert.Equal(t, "1.5 kB\t"+root+"/sub\n", out.String())
	assert.Equal(t, []call{{3, root + "/sub"}}, sink.calls)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0", FormatSize(0, false))
	assert.Equal(t, "3", FormatSize(1100, false))
	assert.Equal(t, "1.1 kB", FormatSize(1100, true))
	assert.Equal(t, "0 B", FormatSize(0, true))
}
