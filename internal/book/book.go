// Package book implements the read-only opening database: a mapping
// from position hash to exact score, valid up to a fixed ply depth, plus
// the raw-file and compiled-file formats described in the external
// interface contract.
package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/connectfour/solver/internal/transposition"
)

// Book is immutable once constructed; it is safe to share a single
// *Book across concurrently running Solvers.
type Book struct {
	table *transposition.Table
	depth int
}

// Depth returns the ply depth the book was compiled to: Get only answers
// for positions whose ply is at most this value.
func (b *Book) Depth() int {
	return b.depth
}

// Get returns the exact score for hash if ply is within the book's
// stored depth and the hash is present, and false otherwise.
func (b *Book) Get(hash uint64, ply int) (int8, bool) {
	if ply > b.depth {
		return 0, false
	}
	return b.table.Get(hash)
}

// record is the on-disk shape of the compiled book: the table's
// slot-indexed key and value arrays plus the depth they were compiled
// to. cbor.Marshal of this struct is what Compile writes and Load reads
// back; the transposition.Table itself is rebuilt from Keys and Vals on
// load rather than serialized directly, since Table's internal slices
// aren't exported.
type record struct {
	Depth int
	Keys  []uint32
	Vals  []int8
}

// Load reads a compiled book produced by Compile.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("book: load %s: %w", path, err)
	}
	var rec record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("book: decode %s: %w", path, err)
	}
	table := transposition.FromParts(rec.Keys, rec.Vals)
	return &Book{table: table, depth: rec.Depth}, nil
}

// Compile reads each raw generator-output file in sources by iterating
// the slice in reverse, inserting every (hash, score) record into a
// fresh table and tracking the maximum depth observed across files. Each
// insert unconditionally overwrites its bucket, so for a hash present in
// more than one source the value that survives is the one from
// sources[0] — it is applied last, since reverse iteration visits it
// last. Callers wanting their most-current file to win should list it
// first. This mirrors original_source/backend/src/opening_db.rs's
// `for path in src_files.iter().rev()` exactly. It serializes the
// resulting table and depth to dest as a single CBOR-encoded blob.
func Compile(dest string, sources []string) error {
	table := transposition.New()
	depth := 0

	for i := len(sources) - 1; i >= 0; i-- {
		path := sources[i]
		fileDepth, err := readRawInto(path, table)
		if err != nil {
			return fmt.Errorf("book: compile %s: %w", path, err)
		}
		if fileDepth > depth {
			depth = fileDepth
		}
	}

	rec := record{Depth: depth, Keys: table.Keys(), Vals: table.Vals()}
	data, err := cbor.Marshal(rec)
	if err != nil {
		return fmt.Errorf("book: encode %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("book: write %s: %w", dest, err)
	}
	return nil
}

// readRawInto reads a single raw generator-output file (4-byte
// big-endian depth header, then a sequence of 8-byte big-endian records
// each (hash<<8)|score) into table, returning the file's depth header.
func readRawInto(path string, table *transposition.Table) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var depthBytes [4]byte
	if _, err := io.ReadFull(r, depthBytes[:]); err != nil {
		return 0, fmt.Errorf("read depth header: %w", err)
	}
	depth := int(binary.BigEndian.Uint32(depthBytes[:]))

	var buf [8]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF {
				break
			}
			return 0, fmt.Errorf("read record: %w", err)
		}
		entry := binary.BigEndian.Uint64(buf[:])
		hash := entry >> 8
		score := int8(entry & 0xFF)
		table.Set(hash, score)
	}
	return depth, nil
}

// AppendRaw appends records (already sorted by the caller) to path,
// writing a fresh 4-byte depth header only when the file does not yet
// exist — subsequent generator runs at the same depth append to the same
// file, matching the "may be appended to on subsequent runs" contract.
func AppendRaw(path string, depth uint32, records []uint64) error {
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("book: open %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if needsHeader {
		var depthBytes [4]byte
		binary.BigEndian.PutUint32(depthBytes[:], depth)
		if _, err := w.Write(depthBytes[:]); err != nil {
			return fmt.Errorf("book: write depth header: %w", err)
		}
	}
	var buf [8]byte
	for _, rec := range records {
		binary.BigEndian.PutUint64(buf[:], rec)
		if _, err := w.Write(buf[:]); err != nil {
			return fmt.Errorf("book: write record: %w", err)
		}
	}
	return w.Flush()
}
