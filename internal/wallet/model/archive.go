package model

import "time"

// ArchivedBlock is the analytics summary of a scanned compact block.
type ArchivedBlock struct {
	Network        Network
	Height         uint64
	Hash           string
	PrevHash       string
	Time           time.Time
	TxCount        uint32
	SaplingOutputs uint32
	OrchardOutputs uint32
	Nullifiers     uint32
}

// ArchivedNullifier records a nullifier revealed on chain.
type ArchivedNullifier struct {
	Network   Network
	Protocol  Protocol
	Nullifier string
	TxID      string
	Height    uint64
}
