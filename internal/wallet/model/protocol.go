// Package model defines domain models for shielded wallet synchronization.
package model

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Network identifies the chain the wallet follows.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// Protocol names a value pool a note or output belongs to.
type Protocol string

var (
	Transparent Protocol = "transparent"
	Sapling     Protocol = "sapling"
	Orchard     Protocol = "orchard"
)

// ShieldedProtocols lists the shielded pools in scan order.
var ShieldedProtocols = []Protocol{Sapling, Orchard}

// TxID is a transaction hash. String renders the byte-reversed hex used by explorers and lightwalletd.
type TxID = chainhash.Hash

// TxIDFromBytes copies a 32 byte transaction hash in internal byte order.
func TxIDFromBytes(b []byte) (TxID, error) {
	var id TxID
	if len(b) != chainhash.HashSize {
		return id, fmt.Errorf("txid length %d, want %d", len(b), chainhash.HashSize)
	}
	copy(id[:], b)
	return id, nil
}

// Nullifier uniquely identifies the spend of a note within its protocol.
type Nullifier struct {
	Protocol Protocol
	Value    [32]byte
}

// NewNullifier builds a nullifier from raw bytes.
func NewNullifier(protocol Protocol, b []byte) (Nullifier, error) {
	nf := Nullifier{Protocol: protocol}
	if len(b) != len(nf.Value) {
		return nf, fmt.Errorf("%s nullifier length %d, want %d", protocol, len(b), len(nf.Value))
	}
	copy(nf.Value[:], b)
	return nf, nil
}

func (n Nullifier) String() string {
	return string(n.Protocol) + ":" + hex.EncodeToString(n.Value[:])
}

// IsZero reports whether the nullifier carries no value.
func (n Nullifier) IsZero() bool {
	return n.Value == [32]byte{}
}
