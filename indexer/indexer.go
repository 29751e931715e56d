package indexer

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/skip-mev/sealed-auction/x/sealedauction/types"
)

// MemoryPath opens an indexer that lives only as long as the process.
const MemoryPath = ":memory:"

// ErrAuctionNotIndexed is returned when no auction_created event was indexed
// for the requested auction.
var ErrAuctionNotIndexed = errors.New("auction not indexed")

type (
	// Indexer persists the events emitted by delivered messages and maintains a
	// per-auction summary derived from them.
	Indexer struct {
		db *sql.DB
	}

	// Event is a single indexed event.
	Event struct {
		ID         string
		Height     int64
		BlockTime  time.Time
		View       string
		Type       string
		Auction    string
		Attributes map[string]string
	}

	// AuctionSummary is the indexed view of an auction's lifecycle.
	AuctionSummary struct {
		Auction       string
		Authority     string
		ReservePrice  uint64
		TotalBids     uint32
		TotalRevealed uint32
		Finalized     bool
		Settled       bool
		Winner        string
		HighestBid    uint64
		UpdatedAt     time.Time
	}
)

// Open opens (creating if needed) the indexer database at path.
func Open(path string) (*Indexer, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// every connection to :memory: is a distinct database
	db.SetMaxOpenConns(1)

	idx := &Indexer{db: db}
	if err := idx.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return idx, nil
}

func (idx *Indexer) migrate() error {
	_, err := idx.db.Exec(`
CREATE TABLE IF NOT EXISTS events (
	event_id TEXT PRIMARY KEY,
	height INTEGER NOT NULL,
	block_time TEXT NOT NULL,
	view TEXT NOT NULL,
	type TEXT NOT NULL,
	auction TEXT,
	attributes TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS events_auction ON events(auction, height);

CREATE TABLE IF NOT EXISTS auctions (
	auction TEXT PRIMARY KEY,
	authority TEXT NOT NULL,
	reserve_price INTEGER NOT NULL,
	total_bids INTEGER NOT NULL DEFAULT 0,
	total_revealed INTEGER NOT NULL DEFAULT 0,
	finalized INTEGER NOT NULL DEFAULT 0,
	settled INTEGER NOT NULL DEFAULT 0,
	winner TEXT NOT NULL DEFAULT '',
	highest_bid INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);
`)
	return err
}

func (idx *Indexer) Close() error {
	return idx.db.Close()
}

func iso(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Index stores events delivered at the given height and block time from view.
// All events are stored in a single transaction.
func (idx *Indexer) Index(height int64, blockTime time.Time, view string, events sdk.Events) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}

	for _, event := range events {
		if err := indexEvent(tx, height, blockTime, view, event); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to index %s event at height %d: %w", event.Type, height, err)
		}
	}

	return tx.Commit()
}

func indexEvent(tx *sql.Tx, height int64, blockTime time.Time, view string, event sdk.Event) error {
	attrs := make(map[string]string, len(event.Attributes))
	for _, attr := range event.Attributes {
		attrs[attr.Key] = attr.Value
	}

	bz, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	auction := attrs[types.EventAttrAuction]

	_, err = tx.Exec(`
INSERT INTO events(event_id, height, block_time, view, type, auction, attributes)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		uuid.New().String(),
		height,
		iso(blockTime),
		view,
		event.Type,
		auction,
		string(bz),
	)
	if err != nil {
		return err
	}

	return summarize(tx, blockTime, event.Type, attrs)
}

func summarize(tx *sql.Tx, blockTime time.Time, eventType string, attrs map[string]string) error {
	auction := attrs[types.EventAttrAuction]
	updatedAt := iso(blockTime)

	var err error
	switch eventType {
	case types.EventTypeAuctionCreated:
		reserve, perr := strconv.ParseUint(attrs[types.EventAttrReservePrice], 10, 64)
		if perr != nil {
			return perr
		}

		_, err = tx.Exec(
			`INSERT OR IGNORE INTO auctions(auction, authority, reserve_price, updated_at) VALUES (?, ?, ?, ?)`,
			auction,
			attrs[types.EventAttrAuthority],
			reserve,
			updatedAt,
		)

	case types.EventTypeBidCommitted:
		_, err = tx.Exec(
			`UPDATE auctions SET total_bids = total_bids + 1, updated_at = ? WHERE auction = ?`,
			updatedAt,
			auction,
		)

	case types.EventTypeBidRevealed:
		_, err = tx.Exec(
			`UPDATE auctions SET total_revealed = total_revealed + 1, updated_at = ? WHERE auction = ?`,
			updatedAt,
			auction,
		)

	case types.EventTypeAuctionFinalized:
		highest, perr := strconv.ParseUint(attrs[types.EventAttrHighestBid], 10, 64)
		if perr != nil {
			return perr
		}

		_, err = tx.Exec(
			`UPDATE auctions SET finalized = 1, winner = ?, highest_bid = ?, updated_at = ? WHERE auction = ?`,
			attrs[types.EventAttrWinner],
			highest,
			updatedAt,
			auction,
		)

	case types.EventTypeAuctionSettled:
		_, err = tx.Exec(
			`UPDATE auctions SET settled = 1, updated_at = ? WHERE auction = ?`,
			updatedAt,
			auction,
		)
	}

	return err
}

// EventsByAuction returns the events that reference auction in delivery order.
func (idx *Indexer) EventsByAuction(auction string) ([]Event, error) {
	rows, err := idx.db.Query(`
SELECT event_id, height, block_time, view, type, auction, attributes
FROM events
WHERE auction = ?
ORDER BY height, rowid
`, auction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e                    Event
			blockTime, attrsJSON string
		)

		if err := rows.Scan(&e.ID, &e.Height, &blockTime, &e.View, &e.Type, &e.Auction, &attrsJSON); err != nil {
			return nil, err
		}

		if e.BlockTime, err = time.Parse(time.RFC3339Nano, blockTime); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(attrsJSON), &e.Attributes); err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// Summary returns the indexed summary of auction.
func (idx *Indexer) Summary(auction string) (AuctionSummary, error) {
	var (
		s                   AuctionSummary
		finalized, settled  int
		totalBids, revealed int64
		updatedAt           string
	)

	err := idx.db.QueryRow(`
SELECT auction, authority, reserve_price, total_bids, total_revealed,
       finalized, settled, winner, highest_bid, updated_at
FROM auctions
WHERE auction = ?
`, auction).Scan(
		&s.Auction,
		&s.Authority,
		&s.ReservePrice,
		&totalBids,
		&revealed,
		&finalized,
		&settled,
		&s.Winner,
		&s.HighestBid,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return AuctionSummary{}, fmt.Errorf("%w: %s", ErrAuctionNotIndexed, auction)
	}
	if err != nil {
		return AuctionSummary{}, err
	}

	s.TotalBids = uint32(totalBids)
	s.TotalRevealed = uint32(revealed)
	s.Finalized = finalized != 0
	s.Settled = settled != 0

	if s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return AuctionSummary{}, err
	}

	return s, nil
}

// CountEvents returns the number of indexed events of the given type.
func (idx *Indexer) CountEvents(eventType string) (int64, error) {
	var n int64
	err := idx.db.QueryRow(`SELECT COUNT(*) FROM events WHERE type = ?`, eventType).Scan(&n)
	return n, err
}
