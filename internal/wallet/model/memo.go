package model

import (
	"bytes"
	"unicode/utf8"
)

// MemoSize is the fixed size of an encrypted memo field.
const MemoSize = 512

// MemoKind classifies memo contents per ZIP-302.
type MemoKind uint8

const (
	MemoEmpty MemoKind = iota
	MemoText
	MemoFuture
	MemoArbitrary
)

// Memo is a decoded memo field. Raw keeps the undecoded bytes for Future and Arbitrary memos.
type Memo struct {
	Kind MemoKind
	Text string
	Raw  []byte
}

// DecodeMemo interprets a 512 byte memo field. Text that is not valid UTF-8 is kept as a Future memo.
func DecodeMemo(b []byte) Memo {
	if len(b) == 0 {
		return Memo{Kind: MemoEmpty}
	}
	raw := append([]byte(nil), b...)
	switch first := b[0]; {
	case first <= 0xF4:
		text := bytes.TrimRight(b, "\x00")
		if !utf8.Valid(text) {
			return Memo{Kind: MemoFuture, Raw: raw}
		}
		return Memo{Kind: MemoText, Text: string(text)}
	case first == 0xF6:
		if isZero(b[1:]) {
			return Memo{Kind: MemoEmpty}
		}
		return Memo{Kind: MemoFuture, Raw: raw}
	case first == 0xFF:
		return Memo{Kind: MemoArbitrary, Raw: raw}
	default:
		return Memo{Kind: MemoFuture, Raw: raw}
	}
}

func (m Memo) IsEmpty() bool { return m.Kind == MemoEmpty }

// Equal compares memos by kind and content.
func (m Memo) Equal(other Memo) bool {
	return m.Kind == other.Kind && m.Text == other.Text && bytes.Equal(m.Raw, other.Raw)
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
