package model

import "bytes"

// MaxWitnessCheckpoints bounds the cache to the deepest reorg the wallet can roll back.
const MaxWitnessCheckpoints = 100

// Witness is the authentication path of a note commitment as of the end of block Height.
type Witness struct {
	Height   uint64
	Position uint64
	Data     []byte
}

func (w Witness) Clone() Witness {
	w.Data = append([]byte(nil), w.Data...)
	return w
}

func (w Witness) Equal(other Witness) bool {
	return w.Height == other.Height && w.Position == other.Position && bytes.Equal(w.Data, other.Data)
}

// WitnessCache is the ordered list of checkpoints for one note. Heights are strictly increasing.
type WitnessCache struct {
	Checkpoints []Witness
}

func (c WitnessCache) Len() int { return len(c.Checkpoints) }

func (c WitnessCache) IsEmpty() bool { return len(c.Checkpoints) == 0 }

// Last returns the newest checkpoint.
func (c WitnessCache) Last() (Witness, bool) {
	if len(c.Checkpoints) == 0 {
		return Witness{}, false
	}
	return c.Checkpoints[len(c.Checkpoints)-1], true
}

// TopHeight is the height of the newest checkpoint, or zero when empty.
func (c WitnessCache) TopHeight() uint64 {
	last, ok := c.Last()
	if !ok {
		return 0
	}
	return last.Height
}

// Push appends a checkpoint. Non-increasing heights are rejected; the oldest checkpoints are
// dropped once the cache exceeds MaxWitnessCheckpoints.
func (c *WitnessCache) Push(w Witness) error {
	if last, ok := c.Last(); ok && w.Height <= last.Height {
		return Violation("push witness", "checkpoint height %d not above %d", w.Height, last.Height)
	}
	c.Checkpoints = append(c.Checkpoints, w.Clone())
	if over := len(c.Checkpoints) - MaxWitnessCheckpoints; over > 0 {
		c.Checkpoints = append([]Witness(nil), c.Checkpoints[over:]...)
	}
	return nil
}

// Clone deep copies the cache.
func (c WitnessCache) Clone() WitnessCache {
	if c.Checkpoints == nil {
		return WitnessCache{}
	}
	out := WitnessCache{Checkpoints: make([]Witness, len(c.Checkpoints))}
	for i, w := range c.Checkpoints {
		out.Checkpoints[i] = w.Clone()
	}
	return out
}

// Monotonic reports whether checkpoint heights are strictly increasing.
func (c WitnessCache) Monotonic() bool {
	for i := 1; i < len(c.Checkpoints); i++ {
		if c.Checkpoints[i].Height <= c.Checkpoints[i-1].Height {
			return false
		}
	}
	return true
}

func (c WitnessCache) Equal(other WitnessCache) bool {
	if len(c.Checkpoints) != len(other.Checkpoints) {
		return false
	}
	for i := range c.Checkpoints {
		if !c.Checkpoints[i].Equal(other.Checkpoints[i]) {
			return false
		}
	}
	return true
}
