// Package feed models the dashboard's recent-activity view: optimistic
// entries shown before the relay confirms, reverted switches on failure, and
// reconciliation against the authoritative log on reload.
package feed

import (
	"sort"
	"time"

	"github.com/homegrid/backend/internal/models"
)

// Entry is one displayed feed line. ID is the server-assigned record id, zero
// for optimistic entries that have not been confirmed against the log yet.
type Entry struct {
	ID         int64
	DeviceName string
	Action     models.Action
	Timestamp  time.Time
	Username   string
	Pending    bool

	// token ties an optimistic entry to its in-flight Toggle, so overlapping
	// toggles settle the right entry.
	token uint64
}

// Feed is the client-side view state: the displayed entries plus the assumed
// switch position per device. Not safe for concurrent use; a dashboard owns
// exactly one feed.
type Feed struct {
	limit    int
	entries  []Entry
	switches map[string]bool
	nextTok  uint64
}

func New(limit int) *Feed {
	if limit <= 0 {
		limit = 20
	}
	return &Feed{
		limit:    limit,
		switches: make(map[string]bool),
	}
}

// Toggle tracks one in-flight relay call so its outcome can be applied to the
// view exactly once.
type Toggle struct {
	feed      *Feed
	device    string
	prevState bool
	hadState  bool
	token     uint64
	settled   bool
}

// Begin flips the switch and prepends an optimistic entry before any server
// confirmation, keeping the UI responsive. Timestamp is the client clock; the
// authoritative record gets the server clock on append.
func (f *Feed) Begin(technicalName, displayName, username string, action models.Action) *Toggle {
	prev, had := f.switches[technicalName]
	f.switches[technicalName] = action == models.ActionOn

	f.nextTok++
	f.entries = append([]Entry{{
		DeviceName: displayName,
		Action:     action,
		Timestamp:  time.Now(),
		Username:   username,
		Pending:    true,
		token:      f.nextTok,
	}}, f.entries...)
	f.truncate()

	return &Toggle{
		feed:      f,
		device:    technicalName,
		prevState: prev,
		hadState:  had,
		token:     f.nextTok,
	}
}

// Confirm settles a successful relay: the optimistic entry stays as shown and
// the switch keeps its new position. No server round trip replaces the entry
// in-session; the next reload reconciles it with the stored record.
func (t *Toggle) Confirm() {
	if t.settled {
		return
	}
	t.settled = true

	for i := range t.feed.entries {
		if t.feed.entries[i].token == t.token {
			t.feed.entries[i].Pending = false
			break
		}
	}
}

// Fail settles a failed relay: the switch reverts to its prior position and
// the optimistic entry is retracted, so the feed never claims an action whose
// controller call is known to have failed.
func (t *Toggle) Fail() {
	if t.settled {
		return
	}
	t.settled = true

	if t.hadState {
		t.feed.switches[t.device] = t.prevState
	} else {
		delete(t.feed.switches, t.device)
	}

	for i := range t.feed.entries {
		if t.feed.entries[i].token == t.token {
			t.feed.entries = append(t.feed.entries[:i], t.feed.entries[i+1:]...)
			break
		}
	}
}

// Reload replaces the view with the authoritative sequence, discarding any
// optimistic-only entries. The deterministic total order (timestamp desc, id
// desc) and the display bound are re-asserted locally so a misbehaving or
// cached response cannot leave the view inconsistent.
func (f *Feed) Reload(entries []Entry) {
	f.entries = make([]Entry, len(entries))
	copy(f.entries, entries)
	for i := range f.entries {
		f.entries[i].Pending = false
	}

	sort.SliceStable(f.entries, func(i, j int) bool {
		a, b := f.entries[i], f.entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
	f.truncate()
}

// Entries returns a copy of the displayed sequence, newest first.
func (f *Feed) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// State reports the assumed switch position for a device.
func (f *Feed) State(technicalName string) (on bool, known bool) {
	on, known = f.switches[technicalName]
	return on, known
}

// SetState seeds a switch position, e.g. from the controller status probe.
func (f *Feed) SetState(technicalName string, on bool) {
	f.switches[technicalName] = on
}

func (f *Feed) truncate() {
	if len(f.entries) > f.limit {
		f.entries = f.entries[:f.limit]
	}
}
