package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EaRebusa/API-Project-Ghibli-Catalog/comments"
)

// Submission state machine. Each in-flight comment moves through exactly one
// path: Pending -> Committed (server confirmed) or Pending -> RolledBack
// (server or network failed). Tracking the phase explicitly, keyed by the
// temporary id, makes reconciling an already-settled submission an error
// instead of a silent double-apply.
type submissionPhase int

const (
	phasePending submissionPhase = iota
	phaseCommitted
	phaseRolledBack
)

var (
	// ErrEmptyComment is returned when the submitted text trims to nothing;
	// nothing is displayed and nothing is sent.
	ErrEmptyComment = errors.New("comment text is empty")
	// ErrUnknownSubmission is returned when a reconciliation targets a temp
	// id that is not pending: never submitted, or already settled.
	ErrUnknownSubmission = errors.New("no pending submission with that id")
	// ErrFeedClosed is returned when a reconciliation arrives after the feed
	// was closed; the stale response is discarded rather than resurrecting
	// an abandoned provisional entry.
	ErrFeedClosed = errors.New("feed is closed")
)

// Entry is one displayed comment. Provisional entries carry the temporary id
// they were submitted under until the server's authoritative comment replaces
// them.
type Entry struct {
	TempID      string // empty once committed or for server-fetched entries
	Provisional bool
	Comment     comments.Comment
}

// Feed is the view state of one film's comment list with optimistic
// submission. All methods are safe for concurrent use; reconciliation always
// matches by temporary id, never by position, so it stays correct when
// pagination or other submissions reorder the list underneath.
type Feed struct {
	mu      sync.Mutex
	closed  bool
	entries []Entry
	phases  map[string]submissionPhase
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{phases: make(map[string]submissionPhase)}
}

// Submit displays a provisional comment immediately and returns the temporary
// id the eventual reconciliation must use. Whitespace-only text is rejected
// without touching the list.
func (f *Feed) Submit(authorLabel, body string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyComment
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", ErrFeedClosed
	}

	tempID := uuid.NewString()
	entry := Entry{
		TempID:      tempID,
		Provisional: true,
		Comment: comments.Comment{
			Body:      body,
			CreatedAt: time.Now(),
		},
	}
	if authorLabel != "" && authorLabel != "Anonymous" {
		entry.Comment.Author = &comments.Author{Username: authorLabel}
	}

	// Prepend: the feed is newest-first.
	f.entries = append([]Entry{entry}, f.entries...)
	f.phases[tempID] = phasePending
	return tempID, nil
}

// Commit replaces the provisional entry matched by tempID with the server's
// authoritative comment.
func (f *Feed) Commit(tempID string, authoritative comments.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeedClosed
	}
	if f.phases[tempID] != phasePending {
		return ErrUnknownSubmission
	}

	for i := range f.entries {
		if f.entries[i].TempID == tempID {
			f.entries[i] = Entry{Comment: authoritative}
			break
		}
	}
	f.phases[tempID] = phaseCommitted
	return nil
}

// Rollback removes the provisional entry matched by tempID. The typed text is
// not restored; resubmission requires retyping, matching at-most-once
// submission semantics.
func (f *Feed) Rollback(tempID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFeedClosed
	}
	if f.phases[tempID] != phasePending {
		return ErrUnknownSubmission
	}

	for i := range f.entries {
		if f.entries[i].TempID == tempID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			break
		}
	}
	f.phases[tempID] = phaseRolledBack
	return nil
}

// Refresh replaces the settled portion of the feed with an authoritative
// server page while keeping still-pending provisional entries on top.
func (f *Feed) Refresh(page *comments.CommentPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || page == nil {
		return
	}

	var kept []Entry
	for _, e := range f.entries {
		if e.Provisional && f.phases[e.TempID] == phasePending {
			kept = append(kept, e)
		}
	}
	for _, c := range page.Comments {
		kept = append(kept, Entry{Comment: c})
	}
	f.entries = kept
}

// Entries returns a snapshot of the displayed list, newest first.
func (f *Feed) Entries() []Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]Entry, len(f.entries))
	copy(snapshot, f.entries)
	return snapshot
}

// Len reports the number of displayed comments.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// Close marks the feed abandoned, e.g. the user navigated away. Requests
// already in flight are not cancelled; their late reconciliations are simply
// refused so a stale response cannot resurrect a discarded entry.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// SubmitComment runs the full optimistic protocol against the API: display a
// provisional entry, send the request, then commit the server's comment or
// roll the entry back on failure. The temporary id is returned either way so
// callers can correlate notifications.
func SubmitComment(ctx context.Context, api *API, feed *Feed, filmID, authorLabel, body string) (string, error) {
	tempID, err := feed.Submit(authorLabel, body)
	if err != nil {
		return "", err
	}

	saved, err := api.PostComment(ctx, filmID, body)
	if err != nil {
		// A rollback error here means the feed was closed or the entry
		// already settled; either way the submission failure is the one the
		// caller cares about.
		_ = feed.Rollback(tempID)
		return tempID, err
	}

	if err := feed.Commit(tempID, *saved); err != nil {
		return tempID, err
	}
	return tempID, nil
}
