package domain

import "time"

// EditLock is an advisory, time-boxed reservation of a term.
type EditLock struct {
	TermID     string    `json:"term_id"`
	Holder     string    `json:"holder"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ExpiredAt reports whether the lock is inert at the given instant.
func (l *EditLock) ExpiredAt(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// CollaboratorActivity is one presence/action record.
type CollaboratorActivity struct {
	UserID        string         `json:"user_id"`
	Kind          ActivityKind   `json:"kind"`
	TermID        *string        `json:"term_id,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	Status        ActivityStatus `json:"status"`
	FailureReason *string        `json:"failure_reason,omitempty"`
}

// Targets reports whether the activity is about the given term.
func (a *CollaboratorActivity) Targets(termID string) bool {
	return a.TermID != nil && *a.TermID == termID
}

// CollaboratorInfo is a collaborator's presence plus their most recent changes, newest first.
type CollaboratorInfo struct {
	UserID          string                `json:"user_id"`
	Name            string                `json:"name"`
	Role            CollaboratorRole      `json:"role"`
	LastActive      time.Time             `json:"last_active"`
	CurrentActivity *CollaboratorActivity `json:"current_activity,omitempty"`
	RecentChanges   []TermChange          `json:"recent_changes"`
}

// EditConflict is a locked term that more than one edit intent targeted recently.
type EditConflict struct {
	Lock        EditLock `json:"lock"`
	EditCount   int      `json:"edit_count"`
	Editors     []string `json:"editors"`
	LockExpired bool     `json:"lock_expired"`
}
