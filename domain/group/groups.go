package group

import (
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	groupIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateGroupFunc    = CreateGroup
	QueryGroupsFunc    = QueryGroups
	QueryGroupRoleFunc = QueryGroupRole
)

// CreateGroup creates a group inside an organization; the creator becomes
// the group's first admin. Requires the org admin role.
func CreateGroup(c *domain.GroupCreating, s *session.Session) (*domain.Group, error) {
	oa, err := access.CheckOrgAccessFunc(c.OrgID, authority.OrgRoleAdmin, s)
	if err != nil {
		return nil, err
	}
	if !oa.HasAccess {
		return nil, bizerror.ErrForbidden
	}

	now := time.Now()
	g := domain.Group{ID: idgen.NextID(groupIdWorker), OrgID: c.OrgID, Name: c.Name, CreateTime: now, Creator: s.Identity.ID}
	m := domain.GroupMember{GroupID: g.ID, MemberId: s.Identity.ID, Role: domain.GroupRoleAdmin, CreateTime: now}
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// QueryGroups lists the visible groups of the session user: the user's own
// group memberships restricted to organizations the user still belongs to.
func QueryGroups(q *domain.GroupQuery, s *session.Session) (*[]domain.Group, error) {
	groupIds, err := access.UserGroupIDsFunc(s.Identity.ID, s)
	if err != nil {
		return nil, err
	}
	if len(groupIds) == 0 {
		return &[]domain.Group{}, nil
	}

	memberships, err := access.UserOrganizationsFunc(s)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return &[]domain.Group{}, nil
	}
	orgIds := make([]types.ID, 0, len(memberships))
	for _, m := range memberships {
		orgIds = append(orgIds, m.OrgID)
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	dbQuery := db.Model(&domain.Group{}).Where("id IN (?) AND org_id IN (?)", groupIds, orgIds)
	if q.OrgID != nil {
		dbQuery = dbQuery.Where("org_id = ?", q.OrgID)
	}

	var groups []domain.Group
	if err := dbQuery.Find(&groups).Error; err != nil {
		return nil, err
	}
	return &groups, nil
}

func QueryGroupRole(groupId types.ID, s *session.Session) (string, error) {
	gm := domain.GroupMember{GroupID: groupId, MemberId: s.Identity.ID}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var founds []domain.GroupMember
	if err := db.Model(domain.GroupMember{}).Where(&gm).Find(&founds).Error; err != nil || len(founds) == 0 {
		return "", err
	}
	return founds[0].Role, nil
}
