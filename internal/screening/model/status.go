package model

import "strings"

// Status represents the progress of a pipeline stage. Transitions are
// caller-directed: any stage may be set to any value.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusStarted    Status = "STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusPending    Status = "PENDING"
)

// Valid reports whether s is a member of the closed STATUS enum.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusStarted, StatusInProgress, StatusCompleted, StatusFailed, StatusPending:
		return true
	}
	return false
}

// ValidationStatus is the per-row validation outcome set by the name
// validation stage.
type ValidationStatus string

const (
	ValidationStatusValidated    ValidationStatus = "VALIDATED"
	ValidationStatusNotValidated ValidationStatus = "NOT_VALIDATED"
	ValidationStatusPending      ValidationStatus = "PENDING"
)

// OrbisMatchStatus is the outcome of matching a row against the external
// entity-reference source.
type OrbisMatchStatus string

const (
	OrbisMatchStatusMatch   OrbisMatchStatus = "MATCH"
	OrbisMatchStatusNoMatch OrbisMatchStatus = "NO_MATCH"
	OrbisMatchStatusPending OrbisMatchStatus = "PENDING"
)

// FinalValidatedStatus is the automatic classification produced by the
// external matcher. Only AUTO_ACCEPT, AUTO_REJECT and REVIEW drive the
// reconciliation engine; the remaining values belong to upstream validation
// stages.
type FinalValidatedStatus string

const (
	FinalValidatedStatusValidated    FinalValidatedStatus = "VALIDATED"
	FinalValidatedStatusNotValidated FinalValidatedStatus = "NOT_VALIDATED"
	FinalValidatedStatusNotRequired  FinalValidatedStatus = "NOT_REQUIRED"
	FinalValidatedStatusPending      FinalValidatedStatus = "PENDING"
	FinalValidatedStatusFailed       FinalValidatedStatus = "FAILED"
	FinalValidatedStatusAutoReject   FinalValidatedStatus = "AUTO_REJECT"
	FinalValidatedStatusAutoAccept   FinalValidatedStatus = "AUTO_ACCEPT"
	FinalValidatedStatusReview       FinalValidatedStatus = "REVIEW"
)

// FinalStatus is the resolved accept/reject disposition of a row after
// reconciliation.
type FinalStatus string

const (
	FinalStatusAccepted FinalStatus = "ACCEPTED"
	FinalStatusRejected FinalStatus = "REJECTED"
	FinalStatusPending  FinalStatus = "PENDING"
)

// DuplicateInSession classifies duplicate rows inside one upload session.
type DuplicateInSession string

const (
	DuplicateInSessionRetain DuplicateInSession = "RETAIN"
	DuplicateInSessionRemove DuplicateInSession = "REMOVE"
	DuplicateInSessionUnique DuplicateInSession = "UNIQUE"
)

// Directive is a human accept/reject instruction applied during
// reconciliation.
type Directive string

const (
	DirectiveAccept Directive = "accept"
	DirectiveReject Directive = "reject"
)

// ParseDirective normalizes a raw status string into a Directive.
// "accept" and "accepted" (any case, surrounding or embedded spaces ignored)
// map to DirectiveAccept; everything else is a reject.
func ParseDirective(raw string) Directive {
	normalized := strings.ToLower(strings.ReplaceAll(raw, " ", ""))
	if normalized == "accept" || normalized == "accepted" {
		return DirectiveAccept
	}
	return DirectiveReject
}
