package sfp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wireDirEntry and wireMessage mirror the C SfpMessage layout field for
// field, so Size matches what a homogeneous C/Go deployment would agree
// on. Fields are always written in full (zero-padded) so both sides see
// the same fixed-size datagram.
type wireDirEntry struct {
	Start int32
	End   int32
	IsDir int32
}

type wireMessage struct {
	Type         int32
	Owner        int32
	PathLen      int32
	Path         [MaxPath]byte
	NameLen      int32
	Name         [MaxPath]byte
	Offset       int32
	Payload      [PayloadSize]byte
	NrNames      int32
	FstLst       [MaxNames]wireDirEntry
	AllFileNames [MaxNamesBuffer]byte
}

// Size is the fixed size in bytes of one SFP record on the wire.
var Size = binary.Size(wireMessage{})

// Encode renders m into a Size-byte SFP wire record.
func Encode(m *Message) ([]byte, error) {
	var w wireMessage
	w.Type = int32(m.Type)
	w.Owner = int32(m.Owner)
	w.PathLen = int32(m.PathLen)
	putCString(w.Path[:], m.Path)
	w.NameLen = int32(m.NameLen)
	putCString(w.Name[:], m.Name)
	w.Offset = int32(m.Offset)
	copy(w.Payload[:], m.Payload[:])
	w.NrNames = int32(m.NrNames)
	for i, e := range m.Entries {
		if i >= MaxNames {
			break
		}
		isDir := int32(0)
		if e.IsDir {
			isDir = 1
		}
		w.FstLst[i] = wireDirEntry{Start: e.Start, End: e.End, IsDir: isDir}
	}
	putCString(w.AllFileNames[:], m.Names)

	buf := bytes.NewBuffer(make([]byte, 0, Size))
	if err := binary.Write(buf, binary.LittleEndian, &w); err != nil {
		return nil, fmt.Errorf("sfp: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a Size-byte (or larger) SFP wire record.
func Decode(data []byte) (*Message, error) {
	if len(data) < Size {
		return nil, fmt.Errorf("sfp: decode: short record (%d < %d bytes)", len(data), Size)
	}
	var w wireMessage
	if err := binary.Read(bytes.NewReader(data[:Size]), binary.LittleEndian, &w); err != nil {
		return nil, fmt.Errorf("sfp: decode: %w", err)
	}

	m := &Message{
		Type:    MsgType(w.Type),
		Owner:   int(w.Owner),
		PathLen: int(w.PathLen),
		Path:    cString(w.Path[:]),
		NameLen: int(w.NameLen),
		Name:    cString(w.Name[:]),
		Offset:  int(w.Offset),
		NrNames: int(w.NrNames),
	}
	copy(m.Payload[:], w.Payload[:])

	if m.Type == DlRep && w.NrNames > 0 {
		n := int(w.NrNames)
		if n > MaxNames {
			n = MaxNames
		}
		m.Entries = make([]DirEntry, n)
		bufLen := int32(0)
		for i := 0; i < n; i++ {
			e := w.FstLst[i]
			m.Entries[i] = DirEntry{Start: e.Start, End: e.End, IsDir: e.IsDir != 0}
			if e.End+1 > bufLen {
				bufLen = e.End + 1
			}
		}
		if int(bufLen) > len(w.AllFileNames) {
			bufLen = int32(len(w.AllFileNames))
		}
		m.Names = string(w.AllFileNames[:bufLen])
	}
	return m, nil
}

// putCString copies s into dst, truncating to len(dst); the remainder
// of dst stays zero (dst is assumed freshly zeroed).
func putCString(dst []byte, s string) {
	n := copy(dst, s)
	_ = n
}

// cString returns the leading NUL-terminated run of b as a string,
// mirroring how the original C server reads path/name fields.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
