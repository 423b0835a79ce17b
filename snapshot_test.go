package accounting

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manuel-koch/accounting/date"
)

func TestSaveLoadArchive(t *testing.T) {
	db := encodeFixture(t)
	path := filepath.Join(t.TempDir(), "home.accdb")

	require.NoError(t, Save(path, db))
	assert.True(t, isZipArchive(path), "fresh save must produce a zip archive")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumTransactions())
	assert.True(t, got.Has("Home/Food"))
}

func TestSaveKeepsBackups(t *testing.T) {
	db := encodeFixture(t)
	path := filepath.Join(t.TempDir(), "home.accdb")

	require.NoError(t, Save(path, db))
	require.NoError(t, Save(path, db))
	require.NoError(t, Save(path, db))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	current := 0
	for _, zf := range zr.File {
		names = append(names, zf.Name)
		if zf.Name == snapshotName {
			current++
		}
	}
	assert.Equal(t, 1, current, "exactly one current snapshot, got %v", names)
	assert.Len(t, names, 3, "two previous revisions kept as backups")
}

func TestSaveTrimsBackups(t *testing.T) {
	db := encodeFixture(t)
	path := filepath.Join(t.TempDir(), "home.accdb")

	// backup names carry second resolution, distinct timestamps keep them apart
	entries := []backupEntry{{name: snapshotName, modified: time.Now(), data: []byte("<database></database>")}}
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < maxBackups+5; i++ {
		entries = append(entries, backupEntry{
			name:     backupName(snapshotName, base.Add(time.Duration(i)*time.Minute)),
			modified: base.Add(time.Duration(i) * time.Minute),
			data:     []byte("<database></database>"),
		})
	}
	require.NoError(t, writeArchiveAtomic(path, entries))

	require.NoError(t, Save(path, db))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, maxBackups+1, "current snapshot plus trimmed backups")
}

func TestSavePlainFileKeepsFormat(t *testing.T) {
	db := encodeFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "home.accdb")

	// a bare XML document as written by older releases
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Encode(f, db))
	require.NoError(t, f.Close())
	require.False(t, isZipArchive(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumTransactions())

	require.NoError(t, Save(path, db))
	assert.False(t, isZipArchive(path), "plain files keep their plain format")

	matches, err := filepath.Glob(filepath.Join(dir, "home_*.accdb"))
	require.NoError(t, err)
	assert.Len(t, matches, 1, "previous revision backed up alongside")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.accdb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRoundTripThroughImport(t *testing.T) {
	db := NewDatabase()
	bank := mustAccount(t, db, Account{}, "Bank", Asset)
	db.Import(bank, []Entry{
		{Date: date.New(2025, 3, 1), Descr: "first", Value: mustEval(t, "10")},
		{Date: date.New(2025, 3, 1), Descr: "second", Value: mustEval(t, "20")},
	})

	path := filepath.Join(t.TempDir(), "bank.accdb")
	require.NoError(t, Save(path, db))
	got, err := Load(path)
	require.NoError(t, err)

	var descrs []string
	for tx := range got.Transactions(nil) {
		descrs = append(descrs, tx.Descr())
	}
	assert.Equal(t, []string{"first", "second"}, descrs, "same-day entries keep their order")
}
