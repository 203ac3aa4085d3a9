// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package arbor

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// appendVarint appends v as unsigned LEB128: 7 data bits per byte,
// continuation bit in the high bit, little-endian.
func appendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// readVarint decodes a varint from buf[off:], returning the value, the
// new offset, and ok=false if buf was truncated mid-value.
func readVarint(buf []byte, off int) (uint64, int, bool) {
	var v uint64
	var shift uint
	for {
		if off >= len(buf) {
			return 0, off, false
		}
		b := buf[off]
		off++
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, off, true
		}
		shift += 7
		if shift >= 64 {
			return 0, off, false
		}
	}
}

func appendString(buf []byte, s string) []byte {
	buf = appendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readString(buf []byte, off int) (string, int, error) {
	n, off, ok := readVarint(buf, off)
	if !ok {
		return "", off, newError(Truncated, "readString", "truncated string length")
	}
	end := off + int(n)
	if end < off || end > len(buf) {
		return "", off, newError(Truncated, "readString", "truncated string bytes")
	}
	b := buf[off:end]
	if !utf8.Valid(b) {
		return "", end, newError(InvalidUtf8, "readString", "invalid utf-8")
	}
	return string(b), end, nil
}

// appendValue writes the wire value encoding: 1-byte tag, then payload.
func appendValue(buf []byte, v NodeValue) []byte {
	buf = append(buf, byte(v.Tag))
	switch v.Tag {
	case TagNone:
	case TagInt:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(v.Int))
		buf = append(buf, b[:]...)
	case TagFloat:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v.Float))
		buf = append(buf, b[:]...)
	case TagText, TagIdent:
		buf = appendString(buf, v.Str)
	case TagBytes:
		buf = appendVarint(buf, uint64(len(v.Bytes)))
		buf = append(buf, v.Bytes...)
	}
	return buf
}

func readValue(buf []byte, off int) (NodeValue, int, error) {
	if off >= len(buf) {
		return NodeValue{}, off, newError(Truncated, "readValue", "truncated value tag")
	}
	tag := ValueTag(buf[off])
	off++
	switch tag {
	case TagNone:
		return NoneValue(), off, nil
	case TagInt:
		if off+8 > len(buf) {
			return NodeValue{}, off, newError(Truncated, "readValue", "truncated int payload")
		}
		v := int64(binary.LittleEndian.Uint64(buf[off : off+8]))
		return IntValue(v), off + 8, nil
	case TagFloat:
		if off+8 > len(buf) {
			return NodeValue{}, off, newError(Truncated, "readValue", "truncated float payload")
		}
		bits := binary.LittleEndian.Uint64(buf[off : off+8])
		return FloatValue(math.Float64frombits(bits)), off + 8, nil
	case TagText, TagIdent:
		s, newOff, err := readString(buf, off)
		if err != nil {
			return NodeValue{}, newOff, err
		}
		if tag == TagText {
			return TextValue(s), newOff, nil
		}
		return IdentValue(s), newOff, nil
	case TagBytes:
		n, newOff, ok := readVarint(buf, off)
		if !ok {
			return NodeValue{}, newOff, newError(Truncated, "readValue", "truncated bytes length")
		}
		end := newOff + int(n)
		if end < newOff || end > len(buf) {
			return NodeValue{}, newOff, newError(Truncated, "readValue", "truncated bytes payload")
		}
		return BytesValue(buf[newOff:end]), end, nil
	default:
		return NodeValue{}, off, newError(InvalidValueTag, "readValue", "unrecognized value tag")
	}
}

// EncodePatch serializes an operation script into arbor's binary wire
// format.
func EncodePatch(ops []Op) []byte {
	return EncodePatchHinted(ops, 0)
}

// EncodePatchHinted is EncodePatch with an estimated average
// per-op size (in bytes) used to preallocate the output buffer,
// avoiding the repeated grow-and-copy append does when encoding large
// scripts. avgOpSizeHint <= 0 falls back to a small fixed guess.
func EncodePatchHinted(ops []Op, avgOpSizeHint int) []byte {
	if avgOpSizeHint <= 0 {
		avgOpSizeHint = 8
	}
	buf := make([]byte, 0, 10+len(ops)*avgOpSizeHint)
	buf = appendVarint(buf, uint64(len(ops)))
	for _, op := range ops {
		buf = append(buf, byte(op.Type))
		switch op.Type {
		case OpDelete:
			buf = appendVarint(buf, uint64(op.NodeId))
		case OpMove:
			buf = appendVarint(buf, uint64(op.NodeId))
			buf = appendVarint(buf, uint64(op.NewParentId))
			buf = appendVarint(buf, uint64(op.NewIndex))
		case OpUpdate:
			buf = appendVarint(buf, uint64(op.NodeId))
			buf = appendValue(buf, op.OldValue)
			buf = appendValue(buf, op.NewValue)
		case OpRelabel:
			buf = appendVarint(buf, uint64(op.NodeId))
			buf = appendString(buf, op.OldLabel)
			buf = appendString(buf, op.NewLabel)
		case OpInsert:
			buf = appendVarint(buf, uint64(op.NodeId))
			buf = appendVarint(buf, uint64(op.ParentId))
			buf = appendVarint(buf, uint64(op.Index))
			buf = append(buf, byte(op.Kind))
			buf = appendString(buf, op.Label)
			buf = appendValue(buf, op.Value)
		}
	}
	return buf
}

// DecodePatch deserializes a byte stream produced by EncodePatch. It
// fails with Truncated, InvalidOpType, InvalidValueTag, or InvalidUtf8
// as appropriate; decode(encode(ops)) == ops for every well-formed
// script.
func DecodePatch(buf []byte) ([]Op, error) {
	count, off, ok := readVarint(buf, 0)
	if !ok {
		return nil, newError(Truncated, "DecodePatch", "truncated op count")
	}
	ops := make([]Op, 0, count)
	for i := uint64(0); i < count; i++ {
		if off >= len(buf) {
			return nil, newError(Truncated, "DecodePatch", "truncated op type")
		}
		opType := OpType(buf[off])
		off++
		var op Op
		op.Type = opType
		switch opType {
		case OpDelete:
			id, newOff, ok := readVarint(buf, off)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated delete")
			}
			op.NodeId = NodeId(id)
			off = newOff
		case OpMove:
			id, o1, ok := readVarint(buf, off)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated move node id")
			}
			np, o2, ok := readVarint(buf, o1)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated move parent id")
			}
			ni, o3, ok := readVarint(buf, o2)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated move index")
			}
			op.NodeId = NodeId(id)
			op.NewParentId = NodeId(np)
			op.NewIndex = int(ni)
			off = o3
		case OpUpdate:
			id, o1, ok := readVarint(buf, off)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated update node id")
			}
			oldVal, o2, err := readValue(buf, o1)
			if err != nil {
				return nil, err
			}
			newVal, o3, err := readValue(buf, o2)
			if err != nil {
				return nil, err
			}
			op.NodeId = NodeId(id)
			op.OldValue = oldVal
			op.NewValue = newVal
			off = o3
		case OpRelabel:
			id, o1, ok := readVarint(buf, off)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated relabel node id")
			}
			oldLabel, o2, err := readString(buf, o1)
			if err != nil {
				return nil, err
			}
			newLabel, o3, err := readString(buf, o2)
			if err != nil {
				return nil, err
			}
			op.NodeId = NodeId(id)
			op.OldLabel = oldLabel
			op.NewLabel = newLabel
			off = o3
		case OpInsert:
			id, o1, ok := readVarint(buf, off)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated insert node id")
			}
			parent, o2, ok := readVarint(buf, o1)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated insert parent id")
			}
			index, o3, ok := readVarint(buf, o2)
			if !ok {
				return nil, newError(Truncated, "DecodePatch", "truncated insert index")
			}
			if o3 >= len(buf) {
				return nil, newError(Truncated, "DecodePatch", "truncated insert kind")
			}
			kind := NormalizeKind(buf[o3])
			o4 := o3 + 1
			label, o5, err := readString(buf, o4)
			if err != nil {
				return nil, err
			}
			value, o6, err := readValue(buf, o5)
			if err != nil {
				return nil, err
			}
			op.NodeId = NodeId(id)
			op.ParentId = NodeId(parent)
			op.Index = int(index)
			op.Kind = kind
			op.Label = label
			op.Value = value
			off = o6
		default:
			return nil, newError(InvalidOpType, "DecodePatch", "unrecognized op type")
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// opEncodedSize returns the exact encoded byte length of op alone, by
// encoding it as a one-op script with EncodePatch and dropping the
// op-count prefix.
func opEncodedSize(op Op) int {
	before := 0
	after := len(EncodePatch([]Op{op}))
	// EncodePatch([]Op{op}) includes the 1-byte op-count varint prefix
	// for a single op (0x01); subtract it to get just the op's bytes.
	return after - before - 1
}

// PatchSizeBytes returns the encoded size in bytes of ops, as produced
// by EncodePatch.
func PatchSizeBytes(ops []Op) int {
	return len(EncodePatch(ops))
}
