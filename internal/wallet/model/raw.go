package model

// RawTransaction is a serialized transaction as returned by the light wallet server.
// Height is zero for transactions the server only knows from its mempool.
type RawTransaction struct {
	Data   []byte
	Height uint64
}

// ServerInfo describes the light wallet server and the chain it follows.
type ServerInfo struct {
	Version       string
	Vendor        string
	ChainName     string
	BlockHeight   uint64
	SaplingHeight uint64
	Branch        string
}
