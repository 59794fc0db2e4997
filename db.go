package sdb

import (
	"encoding/binary"
	"fmt"
	"os"
)

const fileHeaderSize = 16 // compressed length + original length, 8 bytes each

// DB is an open database. Every mutating call rewrites the whole file
// synchronously, so a DB is durable after each returned call but must not
// be shared between goroutines without external locking.
type DB struct {
	path   string
	scheme Compression

	tables []*table
	byName map[string]*table

	enc writeBuffer // reusable plaintext buffer
	cmp []byte      // reusable compression buffer

	saves  int
	closed bool
}

// Op is a single upsert within a Batch.
type Op struct {
	Table string
	Key   string
	Value string
}

// Info is a read-only metadata snapshot.
type Info struct {
	Path    string
	Version string
	Scheme  Compression
}

// Open opens the database file at path using the given codec. A missing or
// empty file yields an empty ready database. A file that cannot be decoded
// also yields an empty database, together with ErrCorruptData so the caller
// can tell the difference.
//
// The codec is not stored in the file; opening with a different codec than
// the one the file was written with reads garbage and is reported as
// ErrCorruptData at best.
func Open(path string, scheme Compression) (*DB, error) {
	if !scheme.isValid() {
		return nil, errBadCompression
	}

	db := &DB{path: path, scheme: scheme, byName: make(map[string]*table)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("sdb: open %s: %w", path, err)
	}
	if len(raw) == 0 {
		return db, nil
	}

	if err := db.load(raw); err != nil {
		db.tables = nil
		db.byName = make(map[string]*table)
		return db, err
	}
	return db, nil
}

// Close releases the in-memory state. It does not save: every mutation has
// already been written synchronously.
func (db *DB) Close() error {
	if db.closed {
		return errClosed
	}
	db.closed = true
	db.tables = nil
	db.byName = nil
	return nil
}

// Info returns path, version and codec of the database.
func (db *DB) Info() Info {
	return Info{Path: db.path, Version: Version, Scheme: db.scheme}
}

// --------------------------------------------------------------------

// CreateTable appends a new empty table.
func (db *DB) CreateTable(name string) error {
	if db.closed {
		return errClosed
	}
	if _, ok := db.byName[name]; ok {
		return ErrDuplicateTable
	}

	t := newTable(name)
	db.tables = append(db.tables, t)
	db.byName[name] = t

	if err := db.save(); err != nil {
		db.tables = db.tables[:len(db.tables)-1]
		delete(db.byName, name)
		return err
	}
	return nil
}

// DestroyTable removes the named table and all its entries.
func (db *DB) DestroyTable(name string) error {
	if db.closed {
		return errClosed
	}
	t, ok := db.byName[name]
	if !ok {
		return ErrTableNotFound
	}

	pos := 0
	for i, x := range db.tables {
		if x == t {
			pos = i
			break
		}
	}

	prev := db.tables
	next := make([]*table, 0, len(prev)-1)
	next = append(next, prev[:pos]...)
	next = append(next, prev[pos+1:]...)
	db.tables = next
	delete(db.byName, name)

	if err := db.save(); err != nil {
		db.tables = prev
		db.byName[name] = t
		return err
	}
	return nil
}

// Set upserts a key within a table: an existing key keeps its position and
// receives the new value, a new key is appended at the end.
func (db *DB) Set(tableName, key, value string) error {
	if db.closed {
		return errClosed
	}
	t, ok := db.byName[tableName]
	if !ok {
		return ErrTableNotFound
	}

	prev, existed := t.set(key, value)
	if err := db.save(); err != nil {
		if existed {
			t.set(key, prev)
		} else {
			t.dropLast()
		}
		return err
	}
	return nil
}

// Get returns the value for key. It returns ErrNotFound when either the
// key or the table is absent; reads have no side effects.
func (db *DB) Get(tableName, key string) (string, error) {
	if db.closed {
		return "", errClosed
	}
	t, ok := db.byName[tableName]
	if !ok {
		return "", ErrNotFound
	}
	value, ok := t.get(key)
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Batch applies a sequence of upserts with a single file rewrite at the
// end. All referenced tables are validated up front, so a missing table
// fails the batch before anything is applied. An empty batch is a no-op.
func (db *DB) Batch(ops []Op) error {
	if db.closed {
		return errClosed
	}
	if len(ops) == 0 {
		return nil
	}

	for _, op := range ops {
		if _, ok := db.byName[op.Table]; !ok {
			return ErrTableNotFound
		}
	}

	type undo struct {
		t       *table
		key     string
		prev    string
		existed bool
	}
	undos := make([]undo, 0, len(ops))

	for _, op := range ops {
		t := db.byName[op.Table]
		prev, existed := t.set(op.Key, op.Value)
		undos = append(undos, undo{t: t, key: op.Key, prev: prev, existed: existed})
	}

	if err := db.save(); err != nil {
		for i := len(undos) - 1; i >= 0; i-- {
			u := undos[i]
			if u.existed {
				u.t.set(u.key, u.prev)
			} else {
				u.t.dropLast()
			}
		}
		return err
	}
	return nil
}

// --------------------------------------------------------------------

// Tables returns the table names in creation order.
func (db *DB) Tables() []string {
	names := make([]string, len(db.tables))
	for i, t := range db.tables {
		names[i] = t.name
	}
	return names
}

// Keys returns the keys of a table in insertion order.
func (db *DB) Keys(tableName string) ([]string, error) {
	t, ok := db.byName[tableName]
	if !ok {
		return nil, ErrTableNotFound
	}
	return t.keys(), nil
}

// Entries returns a copy of the entries of a table in insertion order.
func (db *DB) Entries(tableName string) ([]Entry, error) {
	t, ok := db.byName[tableName]
	if !ok {
		return nil, ErrTableNotFound
	}
	return append([]Entry(nil), t.entries...), nil
}

// Len returns the number of entries in a table.
func (db *DB) Len(tableName string) (int, error) {
	t, ok := db.byName[tableName]
	if !ok {
		return 0, ErrTableNotFound
	}
	return len(t.entries), nil
}

// --------------------------------------------------------------------

func (db *DB) load(raw []byte) error {
	if len(raw) < fileHeaderSize {
		return ErrCorruptData
	}
	compressedLen := binary.LittleEndian.Uint64(raw[0:8])
	originalLen := binary.LittleEndian.Uint64(raw[8:16])

	if uint64(len(raw)-fileHeaderSize) != compressedLen {
		return ErrCorruptData
	}

	plain, err := db.scheme.decompress(raw[fileHeaderSize:], int(originalLen))
	if err != nil {
		return err
	}
	if uint64(len(plain)) != originalLen {
		return ErrCorruptData
	}

	tables, err := decodeTables(plain)
	if err != nil {
		return err
	}

	db.tables = tables
	db.byName = make(map[string]*table, len(tables))
	for _, t := range tables {
		db.byName[t.name] = t
	}
	return nil
}

// save rewrites the whole file: 8-byte compressed length, 8-byte original
// length, then the compressed payload. Truncates any previous contents.
func (db *DB) save() error {
	encodeTables(&db.enc, db.tables)
	plain := db.enc.bytes()

	out, err := db.scheme.compress(db.cmp, plain)
	if err != nil {
		return err
	}
	db.cmp = out

	var header [fileHeaderSize]byte
	binary.LittleEndian.PutUint64(header[0:8], uint64(len(out)))
	binary.LittleEndian.PutUint64(header[8:16], uint64(len(plain)))

	f, err := os.OpenFile(db.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("sdb: save %s: %w", db.path, err)
	}
	if _, err := f.Write(header[:]); err != nil {
		_ = f.Close()
		return fmt.Errorf("sdb: save %s: %w", db.path, err)
	}
	if _, err := f.Write(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("sdb: save %s: %w", db.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sdb: save %s: %w", db.path, err)
	}

	db.saves++
	return nil
}
