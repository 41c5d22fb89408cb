// Package page assembles the store-only ZIP page archives sent to the
// device: a JSON manifest describing a 5x3 button grid plus per-button
// icon bytes, packaged through the forbidden-byte mitigation pipeline.
package page

import (
	"encoding/binary"
	"hash/crc32"
)

// ZIP local/central file header signatures and format constants, store
// method only, zero timestamps, no extra fields or comments.
const (
	localFileHeaderSignature   = 0x04034B50
	centralFileHeaderSignature = 0x02014B50
	endOfCentralDirSignature   = 0x06054B50

	zipVersionNeeded = 20
	zipMethodStore   = 0
	zipFlags         = 0
)

// entry is one file stored in a page archive.
type entry struct {
	name string
	data []byte
}

// Archive is a store-only ZIP buffer under construction.
type Archive struct {
	entries []entry
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Add appends a file entry in insertion order. Entry order in the
// central directory always matches insertion order.
func (a *Archive) Add(name string, data []byte) {
	a.entries = append(a.entries, entry{name: name, data: data})
}

// Bytes serializes the archive: local headers and raw data for each
// entry in insertion order, followed by the central directory and the
// end-of-central-directory record. Offsets in central headers are
// absolute from the start of the returned buffer.
func (a *Archive) Bytes() []byte {
	var buf []byte
	offsets := make([]int, len(a.entries))

	for i, e := range a.entries {
		offsets[i] = len(buf)
		buf = appendLocalHeader(buf, e)
	}

	centralStart := len(buf)
	for i, e := range a.entries {
		buf = appendCentralHeader(buf, e, uint32(offsets[i]))
	}
	centralSize := len(buf) - centralStart

	buf = appendEOCD(buf, len(a.entries), centralSize, centralStart)
	return buf
}

func appendLocalHeader(buf []byte, e entry) []byte {
	crc := crc32.ChecksumIEEE(e.data)
	size := uint32(len(e.data))

	header := make([]byte, 30)
	binary.LittleEndian.PutUint32(header[0:4], localFileHeaderSignature)
	binary.LittleEndian.PutUint16(header[4:6], zipVersionNeeded)
	binary.LittleEndian.PutUint16(header[6:8], zipFlags)
	binary.LittleEndian.PutUint16(header[8:10], zipMethodStore)
	binary.LittleEndian.PutUint16(header[10:12], 0) // mod time
	binary.LittleEndian.PutUint16(header[12:14], 0) // mod date
	binary.LittleEndian.PutUint32(header[14:18], crc)
	binary.LittleEndian.PutUint32(header[18:22], size) // compressed size
	binary.LittleEndian.PutUint32(header[22:26], size) // uncompressed size
	binary.LittleEndian.PutUint16(header[26:28], uint16(len(e.name)))
	binary.LittleEndian.PutUint16(header[28:30], 0) // extra field length

	buf = append(buf, header...)
	buf = append(buf, e.name...)
	buf = append(buf, e.data...)
	return buf
}

func appendCentralHeader(buf []byte, e entry, localOffset uint32) []byte {
	crc := crc32.ChecksumIEEE(e.data)
	size := uint32(len(e.data))

	header := make([]byte, 46)
	binary.LittleEndian.PutUint32(header[0:4], centralFileHeaderSignature)
	binary.LittleEndian.PutUint16(header[4:6], zipVersionNeeded) // version made by
	binary.LittleEndian.PutUint16(header[6:8], zipVersionNeeded) // version needed
	binary.LittleEndian.PutUint16(header[8:10], zipFlags)
	binary.LittleEndian.PutUint16(header[10:12], zipMethodStore)
	binary.LittleEndian.PutUint16(header[12:14], 0) // mod time
	binary.LittleEndian.PutUint16(header[14:16], 0) // mod date
	binary.LittleEndian.PutUint32(header[16:20], crc)
	binary.LittleEndian.PutUint32(header[20:24], size) // compressed size
	binary.LittleEndian.PutUint32(header[24:28], size) // uncompressed size
	binary.LittleEndian.PutUint16(header[28:30], uint16(len(e.name)))
	binary.LittleEndian.PutUint16(header[30:32], 0) // extra field length
	binary.LittleEndian.PutUint16(header[32:34], 0) // comment length
	binary.LittleEndian.PutUint16(header[34:36], 0) // disk number start
	binary.LittleEndian.PutUint16(header[36:38], 0) // internal attrs
	binary.LittleEndian.PutUint32(header[38:42], 0) // external attrs
	binary.LittleEndian.PutUint32(header[42:46], localOffset)

	buf = append(buf, header...)
	buf = append(buf, e.name...)
	return buf
}

func appendEOCD(buf []byte, count, centralSize, centralOffset int) []byte {
	eocd := make([]byte, 22)
	binary.LittleEndian.PutUint32(eocd[0:4], endOfCentralDirSignature)
	binary.LittleEndian.PutUint16(eocd[4:6], 0) // disk number
	binary.LittleEndian.PutUint16(eocd[6:8], 0) // disk with central dir
	binary.LittleEndian.PutUint16(eocd[8:10], uint16(count))
	binary.LittleEndian.PutUint16(eocd[10:12], uint16(count))
	binary.LittleEndian.PutUint32(eocd[12:16], uint32(centralSize))
	binary.LittleEndian.PutUint32(eocd[16:20], uint32(centralOffset))
	binary.LittleEndian.PutUint16(eocd[20:22], 0) // comment length
	return append(buf, eocd...)
}

// parsedEntry is one entry recovered from an existing store-only
// archive's local file headers, used by ReadLocalEntries to preserve
// original entries while re-packaging.
type parsedEntry struct {
	name string
	data []byte
}

// ReadLocalEntries walks the local file headers of a store-only ZIP
// buffer (no general-purpose flags, method 0) and returns its entries
// in order. It does not consult the central directory; it is meant for
// re-packaging externally supplied page archives, not for general ZIP
// reading.
func ReadLocalEntries(buf []byte) ([]parsedEntry, bool) {
	var entries []parsedEntry
	off := 0
	for {
		if off+4 > len(buf) {
			return nil, false
		}
		sig := binary.LittleEndian.Uint32(buf[off : off+4])
		if sig == centralFileHeaderSignature || sig == endOfCentralDirSignature {
			break
		}
		if sig != localFileHeaderSignature || off+30 > len(buf) {
			return nil, false
		}
		method := binary.LittleEndian.Uint16(buf[off+8 : off+10])
		if method != zipMethodStore {
			return nil, false
		}
		size := binary.LittleEndian.Uint32(buf[off+18 : off+22])
		nameLen := binary.LittleEndian.Uint16(buf[off+26 : off+28])
		extraLen := binary.LittleEndian.Uint16(buf[off+28 : off+30])

		nameStart := off + 30
		nameEnd := nameStart + int(nameLen)
		dataStart := nameEnd + int(extraLen)
		dataEnd := dataStart + int(size)
		if dataEnd > len(buf) {
			return nil, false
		}

		entries = append(entries, parsedEntry{
			name: string(buf[nameStart:nameEnd]),
			data: buf[dataStart:dataEnd],
		})
		off = dataEnd
	}
	return entries, true
}
