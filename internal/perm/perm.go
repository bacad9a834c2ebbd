// Package perm decides who may edit a course.
package perm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"syllabus-cli/internal/errs"
)

// OwnerLookup resolves the owner of a stored course. store.AggregateStore satisfies it.
type OwnerLookup interface {
	CourseOwner(ctx context.Context, courseID string) (string, error)
}

// Authorizer enforces course ownership.
//
// Rules:
// - The owner can edit.
// - An admin can edit any course.
// - Nobody else can, and an empty user id is never authorized.
type Authorizer struct {
	owners OwnerLookup
	admins map[string]bool
}

func NewAuthorizer(owners OwnerLookup, admins []string) *Authorizer {
	a := &Authorizer{owners: owners, admins: map[string]bool{}}
	for _, id := range admins {
		if id = strings.TrimSpace(id); id != "" {
			a.admins[id] = true
		}
	}
	return a
}

func (a *Authorizer) IsAdmin(userID string) bool {
	return a.admins[strings.TrimSpace(userID)]
}

// ResolveEditableCourse returns nil when userID may load and save courseID.
// It returns a not-found error when the course does not exist and a forbidden error otherwise.
func (a *Authorizer) ResolveEditableCourse(ctx context.Context, userID, courseID string) error {
	const op = "perm.resolve_editable_course"
	userID = strings.TrimSpace(userID)
	courseID = strings.TrimSpace(courseID)
	if userID == "" {
		return errs.Forbidden(op, "no user id")
	}
	if a.owners == nil {
		return errs.Wrap(errs.CodeInternal, op, errors.New("no owner lookup configured"))
	}
	owner, err := a.owners.CourseOwner(ctx, courseID)
	if err != nil {
		return errs.WithOp(err, op)
	}
	if owner == userID || a.admins[userID] {
		return nil
	}
	return errs.Forbidden(op, fmt.Sprintf("user %s cannot edit course %s", userID, courseID))
}

// CanEdit is ResolveEditableCourse as a boolean.
func (a *Authorizer) CanEdit(ctx context.Context, userID, courseID string) bool {
	return a.ResolveEditableCourse(ctx, userID, courseID) == nil
}
