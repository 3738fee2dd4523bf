package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nagarajRPoojari/applog/storage/utils/log"
)

func TestNewStorage_Defaults(t *testing.T) {
	st := NewStorage(StorageOpts{})
	assert.Equal(t, DefaultLineLogName, st.Lines.Path())
	assert.Equal(t, DefaultRecordLogName, st.Records.Path())
	assert.Equal(t, 8+512, st.Records.Width())
}

func TestStorage_BothLogs(t *testing.T) {
	log.Disable()
	dir := t.TempDir()

	st := NewStorage(StorageOpts{
		LineLogPath:   filepath.Join(dir, "calc.log"),
		RecordLogPath: filepath.Join(dir, "du.bin"),
		PathFieldLen:  64,
	})

	require.NoError(t, st.Lines.Append([]byte("Operación: 7 + 3 = 10")))
	line, err := st.Lines.ReadNth(1)
	require.NoError(t, err)
	assert.Equal(t, "Operación: 7 + 3 = 10", string(line))

	require.NoError(t, st.Records.Append(2, "./sub"))
	recs, err := st.Records.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2), recs[0].SizeKB)
	assert.Equal(t, 72, st.Records.Width())
}
