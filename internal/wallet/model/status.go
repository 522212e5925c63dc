package model

import "fmt"

// StatusKind is the lifecycle stage of a transaction as seen by the wallet.
type StatusKind uint8

const (
	StatusLocal StatusKind = iota
	StatusInMempool
	StatusConfirmed
)

func (k StatusKind) String() string {
	switch k {
	case StatusLocal:
		return "local"
	case StatusInMempool:
		return "in_mempool"
	case StatusConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("status(%d)", uint8(k))
	}
}

// ConfirmationStatus tracks Local -> InMempool -> Confirmed. InMempool may carry the height it was seen at.
type ConfirmationStatus struct {
	Kind      StatusKind
	Height    uint64
	HasHeight bool
}

func Local() ConfirmationStatus {
	return ConfirmationStatus{Kind: StatusLocal}
}

func InMempool(height uint64) ConfirmationStatus {
	return ConfirmationStatus{Kind: StatusInMempool, Height: height, HasHeight: true}
}

// InMempoolUnknownHeight is a mempool status without an observed height.
func InMempoolUnknownHeight() ConfirmationStatus {
	return ConfirmationStatus{Kind: StatusInMempool}
}

func Confirmed(height uint64) ConfirmationStatus {
	return ConfirmationStatus{Kind: StatusConfirmed, Height: height, HasHeight: true}
}

func (s ConfirmationStatus) IsConfirmed() bool { return s.Kind == StatusConfirmed }

func (s ConfirmationStatus) IsInMempool() bool { return s.Kind == StatusInMempool }

// IsPending reports whether the transaction has not been mined yet.
func (s ConfirmationStatus) IsPending() bool { return s.Kind != StatusConfirmed }

func (s ConfirmationStatus) IsConfirmedAtOrAbove(height uint64) bool {
	return s.Kind == StatusConfirmed && s.Height >= height
}

func (s ConfirmationStatus) IsConfirmedAtOrBelow(height uint64) bool {
	return s.Kind == StatusConfirmed && s.Height <= height
}

// IsExpired reports whether a pending transaction should be dropped at the cutoff height.
// Local transactions were never broadcast and do not expire. A mempool entry expires once
// the height it was seen at falls below the cutoff, or when that height is unknown.
func (s ConfirmationStatus) IsExpired(cutoff uint64) bool {
	switch s.Kind {
	case StatusInMempool:
		if !s.HasHeight {
			return true
		}
		return s.Height < cutoff
	default:
		return false
	}
}

// CanAdvanceTo reports whether next is a legal successor. A status never regresses;
// a mempool height may be refreshed while still in the mempool.
func (s ConfirmationStatus) CanAdvanceTo(next ConfirmationStatus) bool {
	if next.Kind != s.Kind {
		return next.Kind > s.Kind
	}
	if s.Kind == StatusConfirmed {
		return next.Height == s.Height
	}
	return true
}

func (s ConfirmationStatus) String() string {
	if s.HasHeight {
		return fmt.Sprintf("%s@%d", s.Kind, s.Height)
	}
	return s.Kind.String()
}
