// Package policy holds the feedback authorization and visibility rules in one
// place. Every feedback-mutating endpoint consults these functions instead of
// carrying its own role checks.
package policy

import (
	"errors"

	"fbs/models"
)

type Action string

const (
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionAcknowledge Action = "acknowledge"
	ActionComment     Action = "comment"
)

// Actor is the authenticated user a decision is made for.
type Actor struct {
	ID   uint
	Role string
}

// Record is the slice of a feedback row the rules depend on.
type Record struct {
	AuthorID         uint
	SubjectID        uint
	Anonymous        bool
	VisibleToManager bool
}

var (
	// ErrDenied marks a role/ownership mismatch (403).
	ErrDenied = errors.New("not allowed")
	// ErrAnonymousNotPeer marks anonymous feedback outside peer-to-peer (422).
	ErrAnonymousNotPeer = errors.New("anonymous feedback is only allowed between employees")
	// ErrSelfFeedback marks author == subject when the switch is off (422).
	ErrSelfFeedback = errors.New("self-feedback is not allowed")
)

// RecordOf extracts the decision-relevant fields from a feedback row.
func RecordOf(fb models.Feedback) Record {
	return Record{
		AuthorID:         fb.ManagerID,
		SubjectID:        fb.EmployeeID,
		Anonymous:        fb.Anonymous,
		VisibleToManager: fb.VisibleToManager,
	}
}

// Create decides whether author may create feedback about subject.
// Managers may target any employee; employees may target other employees
// (peer feedback). Anonymity is restricted to peer-to-peer.
func Create(author Actor, subjectRole string, subjectID uint, anonymous, allowSelf bool) error {
	if author.ID == subjectID && !allowSelf {
		return ErrSelfFeedback
	}

	switch author.Role {
	case models.RoleManager:
		if subjectRole != models.RoleEmployee {
			return ErrDenied
		}
		if anonymous {
			return ErrAnonymousNotPeer
		}
	case models.RoleEmployee:
		if subjectRole != models.RoleEmployee {
			return ErrDenied
		}
	default:
		return ErrDenied
	}

	return nil
}

// Can decides mutations on an existing record.
func Can(actor Actor, action Action, rec Record) bool {
	switch action {
	case ActionUpdate, ActionDelete:
		if actor.ID != rec.AuthorID {
			return false
		}
		if actor.Role == models.RoleManager {
			return true
		}
		// Employee-authored entries are editable only when they are peer
		// feedback, not self-directed.
		return actor.Role == models.RoleEmployee && rec.SubjectID != rec.AuthorID
	case ActionAcknowledge, ActionComment:
		return actor.ID == rec.SubjectID
	default:
		return false
	}
}

// CanView reports whether the record may appear in the actor's reads at all.
// Anonymous records are visible to anyone in masked shape.
func CanView(actor Actor, rec Record) bool {
	if actor.ID == rec.AuthorID || actor.ID == rec.SubjectID {
		return true
	}
	return rec.Anonymous
}

// MaskAuthor reports whether the author identity must be withheld from the
// viewer. Stored data is never altered; this applies at the response boundary.
func MaskAuthor(viewer Actor, rec Record) bool {
	if !rec.Anonymous {
		return false
	}
	if viewer.ID == rec.AuthorID {
		return false
	}
	if viewer.Role == models.RoleManager && rec.VisibleToManager {
		return false
	}
	return true
}
