package policy

import (
	"testing"

	"github.com/orgdesa/orgdesa/internal/models"
	"github.com/orgdesa/orgdesa/internal/rbac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T) *Policy {
	t.Helper()
	enf, err := rbac.NewEnforcer(nil, nil)
	require.NoError(t, err)
	return New(enf)
}

func user(role models.Role) *models.User {
	return &models.User{Name: string(role), Role: role, IsActive: true}
}

func TestCapabilities(t *testing.T) {
	cases := []struct {
		viewer  *models.User
		create  bool
		edit    bool
		admin   bool
		creator bool
		member  bool
	}{
		{viewer: nil},
		{viewer: user(models.RoleAdmin), create: true, edit: true, admin: true},
		{viewer: user(models.RoleContentCreator), create: true, creator: true},
		{viewer: user(models.RoleMember), member: true},
	}

	for _, tc := range cases {
		name := "anonymous"
		if tc.viewer != nil {
			name = string(tc.viewer.Role)
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.create, tc.viewer.CanCreateContent())
			assert.Equal(t, tc.edit, tc.viewer.CanEditContent())
			assert.Equal(t, tc.admin, tc.viewer.IsAdmin())
			assert.Equal(t, tc.creator, tc.viewer.IsContentCreator())
			assert.Equal(t, tc.member, tc.viewer.IsMember())
		})
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	v := user(models.Role("chief"))
	assert.False(t, v.CanCreateContent())
	assert.False(t, v.CanEditContent())
	assert.False(t, v.IsAdmin())
}

func TestMinuteVisibility(t *testing.T) {
	p := newPolicy(t)
	draft := &models.MeetingMinute{Status: models.MinuteDraft}
	published := &models.MeetingMinute{Status: models.MinutePublished}
	archived := &models.MeetingMinute{Status: models.MinuteArchived}

	for _, v := range []*models.User{nil, user(models.RoleMember), user(models.RoleContentCreator)} {
		assert.NoError(t, p.CanReadMinute(v, published))
		assert.ErrorIs(t, p.CanReadMinute(v, draft), ErrForbidden)
		assert.ErrorIs(t, p.CanReadMinute(v, archived), ErrForbidden)

		statuses, err := p.MinuteStatuses(v, models.MinuteDraft)
		require.NoError(t, err)
		assert.Equal(t, []models.MinuteStatus{models.MinutePublished}, statuses, "requested status is ignored for non-editors")
	}

	admin := user(models.RoleAdmin)
	assert.NoError(t, p.CanReadMinute(admin, draft))
	assert.NoError(t, p.CanReadMinute(admin, archived))

	statuses, err := p.MinuteStatuses(admin, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, models.MinuteStatuses, statuses)

	statuses, err = p.MinuteStatuses(admin, models.MinuteArchived)
	require.NoError(t, err)
	assert.Equal(t, []models.MinuteStatus{models.MinuteArchived}, statuses)
}

func TestDocumentVisibility(t *testing.T) {
	p := newPolicy(t)
	doc := func(v models.Visibility) *models.DocumentArchive {
		return &models.DocumentArchive{Visibility: v}
	}

	assert.NoError(t, p.CanReadDocument(nil, doc(models.VisibilityPublic)))
	assert.ErrorIs(t, p.CanReadDocument(nil, doc(models.VisibilityMembersOnly)), ErrForbidden)
	assert.ErrorIs(t, p.CanReadDocument(nil, doc(models.VisibilityAdminOnly)), ErrForbidden)

	for _, role := range []models.Role{models.RoleMember, models.RoleContentCreator} {
		v := user(role)
		assert.NoError(t, p.CanReadDocument(v, doc(models.VisibilityPublic)))
		assert.NoError(t, p.CanReadDocument(v, doc(models.VisibilityMembersOnly)))
		assert.ErrorIs(t, p.CanReadDocument(v, doc(models.VisibilityAdminOnly)), ErrForbidden)
	}

	admin := user(models.RoleAdmin)
	for _, vis := range models.Visibilities {
		assert.NoError(t, p.CanReadDocument(admin, doc(vis)))
	}

	levels, err := p.DocumentVisibilities(nil)
	require.NoError(t, err)
	assert.Equal(t, []models.Visibility{models.VisibilityPublic}, levels)
}

func TestIntegrityErrors(t *testing.T) {
	p := newPolicy(t)

	_, err := p.DocumentVisibilities(user(models.Role("chief")))
	assert.ErrorIs(t, err, models.ErrDataIntegrity)

	err = p.CanReadDocument(nil, &models.DocumentArchive{Visibility: "secret"})
	assert.ErrorIs(t, err, models.ErrDataIntegrity)

	err = p.CanReadMinute(user(models.RoleAdmin), &models.MeetingMinute{Status: "pending"})
	assert.ErrorIs(t, err, models.ErrDataIntegrity)

	err = p.Authorize(user(models.Role("chief")), rbac.ResourceActivity, rbac.ActionCreate)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}

func TestAuthorizeWrites(t *testing.T) {
	p := newPolicy(t)

	assert.ErrorIs(t, p.Authorize(nil, rbac.ResourceActivity, rbac.ActionCreate), ErrForbidden)

	creator := user(models.RoleContentCreator)
	assert.NoError(t, p.Authorize(creator, rbac.ResourceDocument, rbac.ActionCreate))
	assert.ErrorIs(t, p.Authorize(creator, rbac.ResourceDocument, rbac.ActionUpdate), ErrForbidden)
	assert.ErrorIs(t, p.Authorize(creator, rbac.ResourceMeetingMinute, rbac.ActionDelete), ErrForbidden)
	assert.ErrorIs(t, p.Authorize(creator, rbac.ResourceOrganization, rbac.ActionUpdate), ErrForbidden)

	member := user(models.RoleMember)
	assert.ErrorIs(t, p.Authorize(member, rbac.ResourceActivity, rbac.ActionCreate), ErrForbidden)

	admin := user(models.RoleAdmin)
	assert.NoError(t, p.Authorize(admin, rbac.ResourceActivity, rbac.ActionDelete))
	assert.NoError(t, p.Authorize(admin, rbac.ResourceOrganization, rbac.ActionUpdate))
	assert.NoError(t, p.Authorize(admin, rbac.ResourceUser, rbac.ActionManage))
}

func TestGrants(t *testing.T) {
	p := newPolicy(t)

	grants, err := p.Grants(nil)
	require.NoError(t, err)
	assert.Empty(t, grants)

	grants, err = p.Grants(user(models.RoleMember))
	require.NoError(t, err)
	assert.Empty(t, grants)

	grants, err = p.Grants(user(models.RoleContentCreator))
	require.NoError(t, err)
	assert.Contains(t, grants, "document:create")
	assert.NotContains(t, grants, "document:delete")

	grants, err = p.Grants(user(models.RoleAdmin))
	require.NoError(t, err)
	assert.Contains(t, grants, "document:delete")
	assert.Contains(t, grants, "user:manage")

	_, err = p.Grants(user("superuser"))
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}
