package app

import (
	"sync"
	"time"
)

// LeaderboardSnapshot is one published state of the leaderboard.
type LeaderboardSnapshot struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// LeaderboardFeed fans leaderboard snapshots out to in-process subscribers.
type LeaderboardFeed struct {
	now         func() time.Time
	mu          sync.Mutex
	last        LeaderboardSnapshot
	subscribers map[chan LeaderboardSnapshot]struct{}
}

func NewLeaderboardFeed() *LeaderboardFeed {
	return NewLeaderboardFeedWithClock(time.Now)
}

// NewLeaderboardFeedWithClock allows deterministic timestamps in tests.
func NewLeaderboardFeedWithClock(now func() time.Time) *LeaderboardFeed {
	return &LeaderboardFeed{
		now:         now,
		subscribers: make(map[chan LeaderboardSnapshot]struct{}),
	}
}

// Subscribe returns a channel that first receives the latest snapshot and
// then every published one. The caller must invoke cancel to avoid leaks.
func (f *LeaderboardFeed) Subscribe() (<-chan LeaderboardSnapshot, func()) {
	ch := make(chan LeaderboardSnapshot, 8)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	ch <- f.last
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Seed sets the snapshot new subscribers receive without notifying anyone.
func (f *LeaderboardFeed) Seed(entries []LeaderboardEntry) {
	f.mu.Lock()
	f.last = LeaderboardSnapshot{Entries: entries, UpdatedAt: f.now()}
	f.mu.Unlock()
}

// Publish stores and broadcasts a snapshot.
func (f *LeaderboardFeed) Publish(entries []LeaderboardEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = LeaderboardSnapshot{Entries: entries, UpdatedAt: f.now()}
	for ch := range f.subscribers {
		select {
		case ch <- f.last:
		default:
			// slow subscriber: drop its oldest pending snapshot
			select {
			case <-ch:
			default:
			}
			ch <- f.last
		}
	}
}

// Subscribers reports how many subscribers are attached.
func (f *LeaderboardFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}
