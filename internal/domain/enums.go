package domain

// Language selects which side of a term a query or translation works on.
type Language string

const (
	LanguageHebrew  Language = "he"
	LanguageRussian Language = "ru"
)

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageHebrew, LanguageRussian:
		return true
	}
	return false
}

// ChangeKind classifies a ledger entry.
type ChangeKind string

const (
	ChangeAddition     ChangeKind = "ADDITION"
	ChangeModification ChangeKind = "MODIFICATION"
	ChangeDeletion     ChangeKind = "DELETION"
)

func (k ChangeKind) String() string { return string(k) }

func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeAddition, ChangeModification, ChangeDeletion:
		return true
	}
	return false
}

// CollaboratorRole travels in the access token. Only restore, import and flush check it.
type CollaboratorRole string

const (
	RoleAdmin    CollaboratorRole = "ADMIN"
	RoleEditor   CollaboratorRole = "EDITOR"
	RoleReviewer CollaboratorRole = "REVIEWER"
	RoleViewer   CollaboratorRole = "VIEWER"
)

func (r CollaboratorRole) String() string { return string(r) }

func (r CollaboratorRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleReviewer, RoleViewer:
		return true
	}
	return false
}

// ActivityKind is what a collaborator is doing.
type ActivityKind string

const (
	ActivityEditing   ActivityKind = "EDITING"
	ActivityReviewing ActivityKind = "REVIEWING"
	ActivityComparing ActivityKind = "COMPARING"
	ActivityExporting ActivityKind = "EXPORTING"
)

func (k ActivityKind) String() string { return string(k) }

func (k ActivityKind) IsValid() bool {
	switch k {
	case ActivityEditing, ActivityReviewing, ActivityComparing, ActivityExporting:
		return true
	}
	return false
}

// ActivityStatus is the progress of an activity. FAILED carries a reason on the activity.
type ActivityStatus string

const (
	ActivityInProgress ActivityStatus = "IN_PROGRESS"
	ActivityPending    ActivityStatus = "PENDING"
	ActivityCompleted  ActivityStatus = "COMPLETED"
	ActivityFailed     ActivityStatus = "FAILED"
)

func (s ActivityStatus) String() string { return string(s) }

func (s ActivityStatus) IsValid() bool {
	switch s {
	case ActivityInProgress, ActivityPending, ActivityCompleted, ActivityFailed:
		return true
	}
	return false
}

// ReviewStatus is the state of a review request.
type ReviewStatus string

const (
	ReviewPending      ReviewStatus = "PENDING"
	ReviewInReview     ReviewStatus = "IN_REVIEW"
	ReviewApproved     ReviewStatus = "APPROVED"
	ReviewRejected     ReviewStatus = "REJECTED"
	ReviewNeedsChanges ReviewStatus = "NEEDS_CHANGES"
)

func (s ReviewStatus) String() string { return string(s) }

func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewPending, ReviewInReview, ReviewApproved, ReviewRejected, ReviewNeedsChanges:
		return true
	}
	return false
}

// IsOpen reports whether the request still awaits a reviewer decision.
func (s ReviewStatus) IsOpen() bool {
	return s == ReviewPending || s == ReviewInReview
}

// IsTerminal reports whether no further review cycle is expected.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// ResolutionKind is how a conflict on a term was settled.
type ResolutionKind string

const (
	ResolutionKeepBase      ResolutionKind = "KEEP_BASE"
	ResolutionAcceptChanges ResolutionKind = "ACCEPT_CHANGES"
	ResolutionMerge         ResolutionKind = "MERGE"
	ResolutionCustom        ResolutionKind = "CUSTOM"
)

func (k ResolutionKind) String() string { return string(k) }

func (k ResolutionKind) IsValid() bool {
	switch k {
	case ResolutionKeepBase, ResolutionAcceptChanges, ResolutionMerge, ResolutionCustom:
		return true
	}
	return false
}

// MutationOutcome tells a lenient caller whether an update or delete touched anything.
type MutationOutcome string

const (
	OutcomeApplied MutationOutcome = "APPLIED"
	OutcomeMissing MutationOutcome = "MISSING"
)

func (o MutationOutcome) String() string { return string(o) }
