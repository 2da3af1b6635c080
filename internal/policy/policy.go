// Package policy decides what a viewer may read, list and change.
//
// Every listing and every single-record accessor consults the same Policy, and
// the per-record read rules are expressed through the same allowed-value sets
// that scope listings, so list-time and read-time visibility cannot diverge.
package policy

import (
	"errors"
	"slices"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/rbac"
)

// ErrForbidden is returned when the viewer lacks the capability for a write,
// or when an existing record is not visible to the viewer.
var ErrForbidden = errors.New("forbidden")

// Policy is the visibility and write-authorization policy.
type Policy struct {
	enforcer *rbac.Enforcer
}

// New creates a Policy backed by the given write matrix.
func New(enforcer *rbac.Enforcer) *Policy {
	return &Policy{enforcer: enforcer}
}

// checkViewer rejects a viewer whose stored role is outside the enumeration.
func checkViewer(viewer *models.User) error {
	if viewer.IsAnonymous() || viewer.Role.Valid() {
		return nil
	}
	return &models.IntegrityError{Entity: "user", Field: "role", Value: string(viewer.Role)}
}

// CanReadActivity always allows; activities are public.
func (p *Policy) CanReadActivity(viewer *models.User, a *models.Activity) error {
	return checkViewer(viewer)
}

// CanReadOrganization always allows; the profile is public.
func (p *Policy) CanReadOrganization(viewer *models.User) error {
	return checkViewer(viewer)
}

// MinuteStatuses returns the statuses the viewer may list. Editors see every
// status and may narrow to one; anyone else sees published minutes only and
// a requested status is ignored.
func (p *Policy) MinuteStatuses(viewer *models.User, requested models.MinuteStatus) ([]models.MinuteStatus, error) {
	if err := checkViewer(viewer); err != nil {
		return nil, err
	}
	if !viewer.CanEditContent() {
		return []models.MinuteStatus{models.MinutePublished}, nil
	}
	if requested != "" && requested.Valid() {
		return []models.MinuteStatus{requested}, nil
	}
	return slices.Clone(models.MinuteStatuses), nil
}

// CanReadMinute allows published minutes, and any minute for editors.
func (p *Policy) CanReadMinute(viewer *models.User, m *models.MeetingMinute) error {
	if !m.Status.Valid() {
		return &models.IntegrityError{Entity: "meeting_minute", Field: "status", Value: string(m.Status)}
	}
	allowed, err := p.MinuteStatuses(viewer, "")
	if err != nil {
		return err
	}
	if !slices.Contains(allowed, m.Status) {
		return ErrForbidden
	}
	return nil
}

// DocumentVisibilities returns the visibility levels the viewer may list.
func (p *Policy) DocumentVisibilities(viewer *models.User) ([]models.Visibility, error) {
	if viewer.IsAnonymous() {
		return []models.Visibility{models.VisibilityPublic}, nil
	}
	switch viewer.Role {
	case models.RoleAdmin:
		return slices.Clone(models.Visibilities), nil
	case models.RoleContentCreator, models.RoleMember:
		return []models.Visibility{models.VisibilityPublic, models.VisibilityMembersOnly}, nil
	}
	return nil, checkViewer(viewer)
}

// CanReadDocument denies admin_only documents to non-admins and members_only
// documents to anonymous visitors.
func (p *Policy) CanReadDocument(viewer *models.User, d *models.DocumentArchive) error {
	if !d.Visibility.Valid() {
		return &models.IntegrityError{Entity: "document_archive", Field: "visibility", Value: string(d.Visibility)}
	}
	allowed, err := p.DocumentVisibilities(viewer)
	if err != nil {
		return err
	}
	if !slices.Contains(allowed, d.Visibility) {
		return ErrForbidden
	}
	return nil
}

// Authorize checks a write. Anonymous viewers are always denied.
func (p *Policy) Authorize(viewer *models.User, res rbac.Resource, act rbac.Action) error {
	if viewer.IsAnonymous() {
		return ErrForbidden
	}
	if err := checkViewer(viewer); err != nil {
		return err
	}
	ok, err := p.enforcer.Allowed(viewer.Role, res, act)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// Grants lists the viewer's write permissions as "resource:action", in
// policy order. Anonymous viewers hold none.
func (p *Policy) Grants(viewer *models.User) ([]string, error) {
	grants := []string{}
	if viewer.IsAnonymous() {
		return grants, nil
	}
	if err := checkViewer(viewer); err != nil {
		return nil, err
	}
	lines, err := p.enforcer.Permissions(viewer.Role)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if len(l) == 3 {
			grants = append(grants, l[1]+":"+l[2])
		}
	}
	return grants, nil
}

// CanManage reports whether listing pages should offer create actions.
func (p *Policy) CanManage(viewer *models.User) bool {
	return viewer.CanCreateContent()
}

// CanEdit reports whether detail pages should offer edit and delete actions.
func (p *Policy) CanEdit(viewer *models.User) bool {
	return viewer.CanEditContent()
}
