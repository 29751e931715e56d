package types

import (
	"encoding/binary"
)

// RecordKind is the one byte discriminator that prefixes every stored record.
type RecordKind byte

const (
	RecordKindAuction RecordKind = 1
	RecordKindBid     RecordKind = 2
)

const (
	// AuctionSize is the encoded width of an auction, discriminator excluded.
	AuctionSize = 8 + AddressLen + 8 + 8 + 8 + 8 + 8 + 1 + AddressLen + 4 + 4 + 1
	// BidSize is the encoded width of a bid, discriminator excluded.
	BidSize = AddressLen + AddressLen + HashLen + 1 + 1 + 8 + NonceLen
)

// KindOf returns the discriminator of an encoded record.
func KindOf(bz []byte) (RecordKind, error) {
	if len(bz) == 0 {
		return 0, ErrInvalidRecord.Wrap("empty record")
	}

	return RecordKind(bz[0]), nil
}

// Marshal encodes the auction with its discriminator.
func (a Auction) Marshal() []byte {
	w := newRecordWriter(RecordKindAuction, AuctionSize)
	w.u64(a.AuctionID)
	w.addr(a.Authority)
	w.u64(uint64(a.StartTs))
	w.u64(uint64(a.EndTs))
	w.u64(uint64(a.RevealEndTs))
	w.u64(a.ReservePrice)
	w.u64(a.HighestBid)
	if a.HighestBidder != nil {
		w.bool(true)
		w.addr(*a.HighestBidder)
	} else {
		w.bool(false)
		w.addr(ZeroAddress)
	}
	w.u32(a.TotalBids)
	w.u32(a.TotalRevealed)
	w.u8(uint8(a.Status))

	return w.buf
}

// Unmarshal decodes an auction produced by Marshal.
func (a *Auction) Unmarshal(bz []byte) error {
	r, err := newRecordReader(bz, RecordKindAuction, AuctionSize)
	if err != nil {
		return err
	}

	var out Auction
	out.AuctionID = r.u64()
	out.Authority = r.addr()
	out.StartTs = int64(r.u64())
	out.EndTs = int64(r.u64())
	out.RevealEndTs = int64(r.u64())
	out.ReservePrice = r.u64()
	out.HighestBid = r.u64()
	hasBidder := r.bool()
	bidder := r.addr()
	if hasBidder {
		out.HighestBidder = &bidder
	}
	out.TotalBids = r.u32()
	out.TotalRevealed = r.u32()
	out.Status = AuctionStatus(r.u8())

	if r.err != nil {
		return r.err
	}

	if out.Status != StatusBidding && out.Status != StatusFinalized {
		return ErrInvalidRecord.Wrapf("unknown auction status %d", out.Status)
	}

	*a = out
	return nil
}

// Marshal encodes the bid with its discriminator.
func (b Bid) Marshal() []byte {
	w := newRecordWriter(RecordKindBid, BidSize)
	w.addr(b.Auction)
	w.addr(b.Bidder)
	w.raw(b.BidHash[:])
	w.bool(b.Committed)
	w.bool(b.Revealed)
	w.u64(b.Amount)
	w.raw(b.Nonce[:])

	return w.buf
}

// Unmarshal decodes a bid produced by Marshal.
func (b *Bid) Unmarshal(bz []byte) error {
	r, err := newRecordReader(bz, RecordKindBid, BidSize)
	if err != nil {
		return err
	}

	var out Bid
	out.Auction = r.addr()
	out.Bidder = r.addr()
	copy(out.BidHash[:], r.raw(HashLen))
	out.Committed = r.bool()
	out.Revealed = r.bool()
	out.Amount = r.u64()
	copy(out.Nonce[:], r.raw(NonceLen))

	if r.err != nil {
		return r.err
	}

	*b = out
	return nil
}

type recordWriter struct {
	buf []byte
}

func newRecordWriter(kind RecordKind, size int) *recordWriter {
	buf := make([]byte, 1, 1+size)
	buf[0] = byte(kind)
	return &recordWriter{buf: buf}
}

func (w *recordWriter) u8(v uint8)     { w.buf = append(w.buf, v) }
func (w *recordWriter) u32(v uint32)   { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *recordWriter) u64(v uint64)   { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *recordWriter) addr(a Address) { w.buf = append(w.buf, a[:]...) }
func (w *recordWriter) raw(bz []byte)  { w.buf = append(w.buf, bz...) }

func (w *recordWriter) bool(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

type recordReader struct {
	bz  []byte
	off int
	err error
}

func newRecordReader(bz []byte, kind RecordKind, size int) (*recordReader, error) {
	got, err := KindOf(bz)
	if err != nil {
		return nil, err
	}

	if got != kind {
		return nil, ErrInvalidRecord.Wrapf("expected record kind %d, got %d", kind, got)
	}

	if len(bz) != 1+size {
		return nil, ErrInvalidRecord.Wrapf("expected %d bytes, got %d", 1+size, len(bz))
	}

	return &recordReader{bz: bz, off: 1}, nil
}

func (r *recordReader) raw(n int) []byte {
	bz := r.bz[r.off : r.off+n]
	r.off += n
	return bz
}

func (r *recordReader) u8() uint8   { return r.raw(1)[0] }
func (r *recordReader) u32() uint32 { return binary.LittleEndian.Uint32(r.raw(4)) }
func (r *recordReader) u64() uint64 { return binary.LittleEndian.Uint64(r.raw(8)) }

func (r *recordReader) addr() Address {
	var a Address
	copy(a[:], r.raw(AddressLen))
	return a
}

func (r *recordReader) bool() bool {
	switch v := r.u8(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		if r.err == nil {
			r.err = ErrInvalidRecord.Wrapf("invalid bool byte %d at offset %d", v, r.off-1)
		}
		return false
	}
}
