package keeper

import (
	"github.com/huandu/skiplist"

	"github.com/skip-mev/sealed-auction/x/ephemeral/types"
)

type (
	// CommitSchedule orders periodically committed delegations by the time they
	// are next due.
	CommitSchedule struct {
		list *skiplist.SkipList
	}

	commitScheduleKey struct {
		due    int64
		record []byte
	}
)

func NewCommitSchedule() *CommitSchedule {
	return &CommitSchedule{
		list: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a := lhs.(commitScheduleKey)
			b := rhs.(commitScheduleKey)

			switch {
			case a.due > b.due:
				return 1

			case a.due < b.due:
				return -1

			default:
				// records due at the same time are ordered by address
				return skiplist.ByteAsc.Compare(a.record, b.record)
			}
		})),
	}
}

// Insert schedules d. Delegations that are only committed on request are
// ignored.
func (s *CommitSchedule) Insert(d types.Delegation) {
	due, ok := d.NextCommitAt()
	if !ok {
		return
	}

	s.list.Set(commitScheduleKey{due: due, record: d.Record.Bytes()}, d)
}

// Remove unschedules d.
func (s *CommitSchedule) Remove(d types.Delegation) {
	due, ok := d.NextCommitAt()
	if !ok {
		return
	}

	s.list.Remove(commitScheduleKey{due: due, record: d.Record.Bytes()})
}

// Due returns, earliest first, every delegation due at or before now.
func (s *CommitSchedule) Due(now int64) []types.Delegation {
	var due []types.Delegation

	for e := s.list.Front(); e != nil; e = e.Next() {
		if e.Key().(commitScheduleKey).due > now {
			break
		}

		due = append(due, e.Value.(types.Delegation))
	}

	return due
}

// Len returns the number of scheduled delegations.
func (s *CommitSchedule) Len() int {
	return s.list.Len()
}
