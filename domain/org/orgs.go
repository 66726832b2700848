package org

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
	orgIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateOrgFunc = CreateOrg
	QueryOrgsFunc = QueryOrgs
	UpdateOrgFunc = UpdateOrg
)

// CreateOrg creates the organization with its creator as the single owner.
func CreateOrg(c *domain.OrganizationCreating, s *session.Session) (*domain.Organization, error) {
	now := time.Now()
	o := domain.Organization{ID: idgen.NextID(orgIdWorker), Name: c.Name, CreateTime: now, Creator: s.Identity.ID}
	m := domain.OrgMember{OrgID: o.ID, MemberId: s.Identity.ID, Role: authority.OrgRoleOwner, CreateTime: now}
	err := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
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
	return &o, nil
}

// QueryOrgs lists the organizations of the session user with the role held.
func QueryOrgs(s *session.Session) (*[]domain.OrganizationDetail, error) {
	memberships, err := access.UserOrganizationsFunc(s)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return &[]domain.OrganizationDetail{}, nil
	}

	roles := map[types.ID]authority.OrgRole{}
	orgIds := make([]types.ID, 0, len(memberships))
	for _, m := range memberships {
		roles[m.OrgID] = m.Role
		orgIds = append(orgIds, m.OrgID)
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var orgs []domain.Organization
	if err := db.Model(&domain.Organization{}).Where("id IN (?)", orgIds).Find(&orgs).Error; err != nil {
		return nil, err
	}

	details := make([]domain.OrganizationDetail, 0, len(orgs))
	for _, o := range orgs {
		details = append(details, domain.OrganizationDetail{Organization: o, Role: roles[o.ID]})
	}
	return &details, nil
}

func UpdateOrg(id types.ID, d *domain.OrganizationUpdating, s *session.Session) error {
	oa, err := access.CheckOrgAccessFunc(id, authority.OrgRoleAdmin, s)
	if err != nil {
		return err
	}
	if !oa.HasAccess {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		var o domain.Organization
		if err := tx.Where(domain.Organization{ID: id}).First(&o).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Organization{ID: id}).Where(domain.Organization{ID: id}).
			Update(domain.Organization{Name: d.Name}).Error
	})
}
