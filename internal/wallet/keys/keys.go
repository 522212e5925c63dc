// Package keys provides the read-only wallet key material used during sync.
package keys

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
)

// ViewingKey is the material needed to detect and read notes of one shielded account.
type ViewingKey struct {
	Protocol        model.Protocol
	Index           int
	IncomingKey     []byte
	OutgoingKey     []byte
	FullViewingKey  []byte
	Address         string
	HaveSpendingKey bool
}

// Store holds the wallet's viewing keys and transparent addresses. It is immutable after creation.
type Store struct {
	network   model.Network
	decoder   *AddressDecoder
	viewing   map[model.Protocol][]ViewingKey
	taddrs    []string
	addresses map[string]struct{}
}

// NewStore validates the key material and builds a Store.
func NewStore(network model.Network, viewing []ViewingKey, taddrs []string) (*Store, error) {
	decoder, err := NewAddressDecoder(network)
	if err != nil {
		return nil, err
	}

	s := &Store{
		network:   network,
		decoder:   decoder,
		viewing:   make(map[model.Protocol][]ViewingKey),
		addresses: make(map[string]struct{}),
	}
	for _, k := range viewing {
		if k.Protocol != model.Sapling && k.Protocol != model.Orchard {
			return nil, fmt.Errorf("viewing key %d: unsupported protocol %q", k.Index, k.Protocol)
		}
		if len(k.IncomingKey) == 0 {
			return nil, fmt.Errorf("%s viewing key %d: missing incoming key", k.Protocol, k.Index)
		}
		k.Index = len(s.viewing[k.Protocol])
		s.viewing[k.Protocol] = append(s.viewing[k.Protocol], k)
		if k.Address != "" {
			s.addresses[k.Address] = struct{}{}
		}
	}
	for _, addr := range taddrs {
		if err := decoder.Validate(addr); err != nil {
			return nil, err
		}
		if _, dup := s.addresses[addr]; dup {
			continue
		}
		s.taddrs = append(s.taddrs, addr)
		s.addresses[addr] = struct{}{}
	}
	return s, nil
}

func (s *Store) Network() model.Network { return s.network }

// Decoder returns the transparent address decoder of the store's network.
func (s *Store) Decoder() *AddressDecoder { return s.decoder }

// ViewingKeys returns the keys of protocol in index order.
func (s *Store) ViewingKeys(protocol model.Protocol) []ViewingKey {
	return append([]ViewingKey(nil), s.viewing[protocol]...)
}

func (s *Store) TransparentAddresses() []string {
	return append([]string(nil), s.taddrs...)
}

// IsWalletAddress reports whether addr is one of the wallet's transparent or shielded addresses.
func (s *Store) IsWalletAddress(addr string) bool {
	_, ok := s.addresses[addr]
	return ok
}

type fileKey struct {
	IncomingKey string `json:"ivk"`
	OutgoingKey string `json:"ovk"`
	FullKey     string `json:"fvk"`
	Address     string `json:"address"`
	Spending    bool   `json:"have_spending_key"`
}

type keyFile struct {
	Network     model.Network `json:"network"`
	Sapling     []fileKey     `json:"sapling"`
	Orchard     []fileKey     `json:"orchard"`
	Transparent []string      `json:"transparent"`
}

// LoadFile reads a JSON key file. A network set in the file must match the expected one.
func LoadFile(path string, network model.Network) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return Parse(data, network)
}

// Parse decodes key file contents.
func Parse(data []byte, network model.Network) (*Store, error) {
	var f keyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	if f.Network != "" && f.Network != network {
		return nil, fmt.Errorf("key file is for %s, syncing %s", f.Network, network)
	}

	var viewing []ViewingKey
	for _, group := range []struct {
		protocol model.Protocol
		keys     []fileKey
	}{
		{protocol: model.Sapling, keys: f.Sapling},
		{protocol: model.Orchard, keys: f.Orchard},
	} {
		for i, k := range group.keys {
			ivk, err := hex.DecodeString(k.IncomingKey)
			if err != nil {
				return nil, fmt.Errorf("%s key %d ivk: %w", group.protocol, i, err)
			}
			ovk, err := hex.DecodeString(k.OutgoingKey)
			if err != nil {
				return nil, fmt.Errorf("%s key %d ovk: %w", group.protocol, i, err)
			}
			fvk, err := hex.DecodeString(k.FullKey)
			if err != nil {
				return nil, fmt.Errorf("%s key %d fvk: %w", group.protocol, i, err)
			}
			viewing = append(viewing, ViewingKey{
				Protocol:        group.protocol,
				IncomingKey:     ivk,
				OutgoingKey:     ovk,
				FullViewingKey:  fvk,
				Address:         k.Address,
				HaveSpendingKey: k.Spending,
			})
		}
	}
	return NewStore(network, viewing, f.Transparent)
}
