package accounting

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Snapshots are kept in a zip archive: the canonical document is stored as
// snapshotName, earlier revisions stay alongside as timestamped backups.
// A bare XML file is still accepted for reading and keeps its plain format
// on save, with a timestamped sibling copy as backup.
const (
	snapshotName     = "current.accdb"
	backupTimeFormat = "20060102_150405"
	maxBackups       = 10
)

// Load reads a database from path, accepting either a snapshot archive or a
// bare XML document.
func Load(path string) (*Database, error) {
	if isZipArchive(path) {
		return loadArchive(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open database file %q: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func loadArchive(path string) (*Database, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("could not open snapshot archive %q: %w", path, err)
	}
	defer zr.Close()

	for _, zf := range zr.File {
		if zf.Name != snapshotName {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("could not read snapshot %q: %w", path, err)
		}
		defer rc.Close()
		return Decode(rc)
	}
	return nil, fmt.Errorf("snapshot archive %q holds no %s", path, snapshotName)
}

// Save writes the database to path. An existing archive gains the previous
// snapshot as a timestamped backup, trimmed to the maxBackups most recent
// revisions. An existing bare XML file keeps its plain format and gets a
// timestamped sibling copy first. A new path starts a fresh archive.
func Save(path string, db *Database) error {
	var buf bytes.Buffer
	if err := Encode(&buf, db); err != nil {
		return err
	}
	now := time.Now()

	switch {
	case isZipArchive(path):
		return saveToArchive(path, buf.Bytes(), now)
	case fileExists(path):
		if err := backupPlainFile(path, now); err != nil {
			return err
		}
		return writeFileAtomic(path, buf.Bytes())
	default:
		return writeFreshArchive(path, buf.Bytes(), now)
	}
}

type backupEntry struct {
	name     string
	modified time.Time
	data     []byte
}

// saveToArchive rewrites the archive at path: the previous snapshot becomes
// a timestamped backup and only the most recent backups survive.
func saveToArchive(path string, snapshot []byte, now time.Time) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("could not open snapshot archive %q: %w", path, err)
	}

	var backups []backupEntry
	for _, zf := range zr.File {
		rc, err := zf.Open()
		if err != nil {
			zr.Close()
			return fmt.Errorf("could not read archive entry %q: %w", zf.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			zr.Close()
			return fmt.Errorf("could not read archive entry %q: %w", zf.Name, err)
		}
		entry := backupEntry{name: zf.Name, modified: zf.Modified, data: data}
		if zf.Name == snapshotName {
			entry.name = backupName(snapshotName, zf.Modified)
		}
		backups = append(backups, entry)
	}
	zr.Close()

	sort.Slice(backups, func(i, j int) bool { return backups[i].modified.After(backups[j].modified) })
	if len(backups) > maxBackups {
		for _, dropped := range backups[maxBackups:] {
			log.Printf("dropping old backup %s from %s", dropped.name, path)
		}
		backups = backups[:maxBackups]
	}

	entries := append([]backupEntry{{name: snapshotName, modified: now, data: snapshot}}, backups...)
	return writeArchiveAtomic(path, entries)
}

func writeFreshArchive(path string, snapshot []byte, now time.Time) error {
	return writeArchiveAtomic(path, []backupEntry{{name: snapshotName, modified: now, data: snapshot}})
}

// writeArchiveAtomic writes all entries into a temporary archive next to
// path and moves it into place, so a failed save never clobbers the old one.
func writeArchiveAtomic(path string, entries []backupEntry) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".accdb-*")
	if err != nil {
		return fmt.Errorf("could not create temporary archive for %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	for _, entry := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: entry.modified,
		})
		if err == nil {
			_, err = w.Write(entry.data)
		}
		if err != nil {
			zw.Close()
			tmp.Close()
			return fmt.Errorf("could not write archive entry %q: %w", entry.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not finalize archive %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".accdb-*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// backupPlainFile copies the bare XML file to a timestamped sibling,
// e.g. "home.accdb" to "home_20250813_174233.accdb".
func backupPlainFile(path string, now time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not back up %q: %w", path, err)
	}
	ext := filepath.Ext(path)
	backup := strings.TrimSuffix(path, ext) + "_" + now.Format(backupTimeFormat) + ext
	log.Printf("backing up %s to %s", path, backup)
	return os.WriteFile(backup, data, 0644)
}

func backupName(name string, modified time.Time) string {
	ext := filepath.Ext(name)
	return modified.Format(backupTimeFormat) + ext
}

func isZipArchive(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return false
	}
	return bytes.Equal(magic[:], []byte("PK\x03\x04"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
