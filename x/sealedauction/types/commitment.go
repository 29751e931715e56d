package types

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
)

// HashLen is the width of a bid commitment.
const HashLen = sha256.Size

// NonceLen is the width of the secret nonce a bidder blinds its amount with.
const NonceLen = 32

type (
	// Hash is a bid commitment.
	Hash [HashLen]byte

	// Nonce is the bidder chosen secret that blinds a committed amount.
	Nonce [NonceLen]byte
)

// ComputeBidHash binds amount, nonce, bidder and auction into a single
// commitment. Every input has a fixed width so no delimiters are needed:
//
//	sha256(le64(amount) || nonce || bidder || auction)
//
// Including the bidder and auction prevents a revealed (amount, nonce) pair from
// being replayed by another bidder or against another auction.
func ComputeBidHash(amount uint64, nonce Nonce, bidder, auction Address) Hash {
	var amt [8]byte
	binary.LittleEndian.PutUint64(amt[:], amount)

	h := sha256.New()
	h.Write(amt[:])
	h.Write(nonce[:])
	h.Write(bidder[:])
	h.Write(auction[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// NewNonce reads a fresh nonce from r, usually crypto/rand.Reader.
func NewNonce(r io.Reader) (Nonce, error) {
	var n Nonce
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return Nonce{}, fmt.Errorf("failed to read nonce: %w", err)
	}

	return n, nil
}

// IsZero reports whether the hash has never been set.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex encoding of the hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// String returns the hex encoding of the nonce.
func (n Nonce) String() string {
	return hex.EncodeToString(n[:])
}

// ParseHash decodes a hex encoded commitment.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if err := decodeFixedHex(s, h[:]); err != nil {
		return Hash{}, fmt.Errorf("invalid bid hash: %w", err)
	}

	return h, nil
}

// ParseNonce decodes a hex encoded nonce.
func ParseNonce(s string) (Nonce, error) {
	var n Nonce
	if err := decodeFixedHex(s, n[:]); err != nil {
		return Nonce{}, fmt.Errorf("invalid nonce: %w", err)
	}

	return n, nil
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) (err error) {
	*h, err = ParseHash(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler.
func (n Nonce) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Nonce) UnmarshalText(text []byte) (err error) {
	*n, err = ParseNonce(string(text))
	return err
}

func decodeFixedHex(s string, dst []byte) error {
	bz, err := hex.DecodeString(s)
	if err != nil {
		return err
	}

	if len(bz) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(bz))
	}

	copy(dst, bz)
	return nil
}
