package model

import (
	"fmt"
	"strings"
)

// MemoPolicy controls which full transactions are downloaded to learn memos.
type MemoPolicy string

var (
	MemosNone   MemoPolicy = "none"
	MemosWallet MemoPolicy = "wallet"
	MemosAll    MemoPolicy = "all"
)

// UnmarshalFlag implements flags.Unmarshaler.
func (p *MemoPolicy) UnmarshalFlag(value string) error {
	switch v := MemoPolicy(strings.ToLower(strings.TrimSpace(value))); v {
	case MemosNone, MemosWallet, MemosAll:
		*p = v
		return nil
	default:
		return fmt.Errorf("unknown memo policy %q, want none, wallet or all", value)
	}
}

// FetchesWallet reports whether wallet-related transactions are fetched in full.
func (p MemoPolicy) FetchesWallet() bool {
	return p == MemosWallet || p == MemosAll
}

// FetchesAll reports whether every transaction is fetched regardless of ownership.
func (p MemoPolicy) FetchesAll() bool {
	return p == MemosAll
}
