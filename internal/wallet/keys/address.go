package keys

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

const (
	hash160Size   = 20
	checksumSize  = 4
	prefixSize    = 2
	encodedLength = prefixSize + hash160Size + checksumSize
)

var (
	// ErrUnsupportedScript is returned for scripts that are not P2PKH or P2SH.
	ErrUnsupportedScript = errors.New("unsupported script class")
	errBadChecksum       = errors.New("bad checksum")
)

type addressParams struct {
	pubKeyHash [prefixSize]byte
	scriptHash [prefixSize]byte
}

// AddressDecoder turns transparent output scripts into base58check addresses of one network.
type AddressDecoder struct {
	params addressParams
}

// NewAddressDecoder initializes a decoder using the address prefixes of the provided network.
func NewAddressDecoder(network model.Network) (*AddressDecoder, error) {
	params, err := addressParamsForNetwork(network)
	if err != nil {
		return nil, err
	}
	return &AddressDecoder{params: params}, nil
}

// DecodeScript extracts the address paid by a P2PKH or P2SH script.
func (d *AddressDecoder) DecodeScript(script []byte) (string, error) {
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyHashTy:
		// OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG
		return d.encode(d.params.pubKeyHash, script[3:3+hash160Size]), nil
	case txscript.ScriptHashTy:
		// OP_HASH160 <20> OP_EQUAL
		return d.encode(d.params.scriptHash, script[2:2+hash160Size]), nil
	default:
		return "", ErrUnsupportedScript
	}
}

// EncodePubKeyHash renders a P2PKH address for a 20 byte key hash.
func (d *AddressDecoder) EncodePubKeyHash(hash []byte) (string, error) {
	if len(hash) != hash160Size {
		return "", fmt.Errorf("pubkey hash length %d, want %d", len(hash), hash160Size)
	}
	return d.encode(d.params.pubKeyHash, hash), nil
}

// Validate checks that addr is a well formed transparent address of the decoder's network.
func (d *AddressDecoder) Validate(addr string) error {
	raw := base58.Decode(addr)
	if len(raw) != encodedLength {
		return fmt.Errorf("address %q: decoded length %d, want %d", addr, len(raw), encodedLength)
	}
	payload, sum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:checksumSize], sum) {
		return fmt.Errorf("address %q: %w", addr, errBadChecksum)
	}
	prefix := [prefixSize]byte{payload[0], payload[1]}
	if prefix != d.params.pubKeyHash && prefix != d.params.scriptHash {
		return fmt.Errorf("address %q: prefix %x does not belong to this network", addr, prefix)
	}
	return nil
}

func (d *AddressDecoder) encode(prefix [prefixSize]byte, hash []byte) string {
	payload := make([]byte, 0, encodedLength)
	payload = append(payload, prefix[:]...)
	payload = append(payload, hash...)
	payload = append(payload, chainhash.DoubleHashB(payload)[:checksumSize]...)
	return base58.Encode(payload)
}

func addressParamsForNetwork(network model.Network) (addressParams, error) {
	switch strings.ToLower(string(network)) {
	case "main", "mainnet":
		return addressParams{pubKeyHash: [2]byte{0x1c, 0xb8}, scriptHash: [2]byte{0x1c, 0xbd}}, nil
	case "test", "testnet", "regtest":
		return addressParams{pubKeyHash: [2]byte{0x1d, 0x25}, scriptHash: [2]byte{0x1c, 0xba}}, nil
	default:
		return addressParams{}, fmt.Errorf("unsupported network %q", network)
	}
}
