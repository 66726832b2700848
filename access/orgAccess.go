package access

import (
	"huddle/authority"
	"huddle/domain"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
)

var (
	CheckOrgAccessFunc    = CheckOrgAccess
	UserOrganizationsFunc = UserOrganizations
)

type OrgAccess struct {
	HasAccess bool `json:"hasAccess"`

	// Found reports whether a membership row exists; Role is the actual
	// role and is returned even when it does not meet the requirement.
	Found bool              `json:"found"`
	Role  authority.OrgRole `json:"role"`
}

// CheckOrgAccess fails closed: a missing membership is "no access",
// never an error.
func CheckOrgAccess(orgId types.ID, requiredRole authority.OrgRole, s *session.Session) (OrgAccess, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var founds []domain.OrgMember
	q := domain.OrgMember{OrgID: orgId, MemberId: s.Identity.ID}
	if err := db.Model(domain.OrgMember{}).Where(&q).Find(&founds).Error; err != nil {
		return OrgAccess{}, err
	}
	if len(founds) == 0 {
		return OrgAccess{HasAccess: false, Found: false}, nil
	}

	role := founds[0].Role
	return OrgAccess{HasAccess: role.Meets(requiredRole), Found: true, Role: role}, nil
}

// UserOrganizations lists the memberships of the session user; downstream
// resolvers use it to scope group visibility to the user's organizations.
func UserOrganizations(s *session.Session) ([]domain.OrgMember, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	var memberships []domain.OrgMember
	if err := db.Model(domain.OrgMember{}).Where(&domain.OrgMember{MemberId: s.Identity.ID}).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}
