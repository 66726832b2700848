package org

import (
	"errors"
	"time"

	"huddle/access"
	"huddle/account"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryOrgMembersFunc      = QueryOrgMembers
	AddOrgMemberFunc         = AddOrgMember
	RemoveOrgMemberFunc      = RemoveOrgMember
	TransferOrgOwnershipFunc = TransferOrgOwnership
)

func QueryOrgMembers(orgId types.ID, s *session.Session) (*[]domain.OrgMemberDetail, error) {
	oa, err := access.CheckOrgAccessFunc(orgId, authority.OrgRoleMember, s)
	if err != nil {
		return nil, err
	}
	if !oa.HasAccess {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var members []domain.OrgMember
	if err := db.Model(&domain.OrgMember{}).Where(&domain.OrgMember{OrgID: orgId}).Find(&members).Error; err != nil {
		return nil, err
	}

	memberIds := make([]types.ID, 0, len(members))
	for _, m := range members {
		memberIds = append(memberIds, m.MemberId)
	}
	names, err := account.QueryAccountNamesFunc(memberIds, s)
	if err != nil {
		return nil, err
	}

	details := make([]domain.OrgMemberDetail, 0, len(members))
	for _, m := range members {
		detail := domain.OrgMemberDetail{OrgMember: m, MemberName: "Unknown"}
		if name, found := names[m.MemberId]; found {
			detail.MemberName = name
		}
		details = append(details, detail)
	}
	return &details, nil
}

// AddOrgMember adds a member or changes an existing member's role.
// Owner rows are immutable here; granting or revoking the admin role is
// reserved to the owner.
func AddOrgMember(orgId types.ID, d *domain.OrgMemberCreation, s *session.Session) error {
	oa, err := access.CheckOrgAccessFunc(orgId, authority.OrgRoleAdmin, s)
	if err != nil {
		return err
	}
	if !oa.HasAccess {
		return bizerror.ErrForbidden
	}

	if s.Identity.ID == d.MemberId {
		return bizerror.ErrMemberSelfGrant
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		user := account.User{ID: d.MemberId}
		if err := tx.Model(&account.User{}).Where(&user).First(&user).Error; err != nil {
			return err
		}

		existing := domain.OrgMember{}
		err := tx.Where("org_id = ? AND member_id = ?", orgId, d.MemberId).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && existing.Role == authority.OrgRoleOwner {
			return bizerror.ErrOwnerImmutable
		}
		touchesAdmin := d.Role == authority.OrgRoleAdmin || (err == nil && existing.Role == authority.OrgRoleAdmin)
		if touchesAdmin && !oa.Role.Meets(authority.OrgRoleOwner) {
			return bizerror.ErrForbidden
		}

		record := domain.OrgMember{OrgID: orgId, MemberId: d.MemberId, Role: d.Role, CreateTime: time.Now()}
		return tx.Save(&record).Error
	})
}

func RemoveOrgMember(orgId types.ID, d *domain.OrgMemberDeletion, s *session.Session) error {
	oa, err := access.CheckOrgAccessFunc(orgId, authority.OrgRoleAdmin, s)
	if err != nil {
		return err
	}
	if !oa.HasAccess {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := domain.OrgMember{}
		if err := tx.Where("org_id = ? AND member_id = ?", orgId, d.MemberID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if record.Role == authority.OrgRoleOwner {
			return bizerror.ErrOwnerImmutable
		}
		if record.Role == authority.OrgRoleAdmin && !oa.Role.Meets(authority.OrgRoleOwner) {
			return bizerror.ErrForbidden
		}

		return tx.Where("org_id = ? AND member_id = ?", orgId, d.MemberID).Delete(&domain.OrgMember{}).Error
	})
}

// TransferOrgOwnership demotes the current owner to admin and promotes the
// target in one transaction, so the owner set is never empty.
func TransferOrgOwnership(orgId types.ID, d *domain.OrgOwnershipTransfer, s *session.Session) error {
	oa, err := access.CheckOrgAccessFunc(orgId, authority.OrgRoleOwner, s)
	if err != nil {
		return err
	}
	if !oa.HasAccess {
		return bizerror.ErrForbidden
	}
	if d.NewOwnerId == s.Identity.ID {
		return bizerror.ErrMemberSelfGrant
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		target := domain.OrgMember{}
		if err := tx.Where("org_id = ? AND member_id = ?", orgId, d.NewOwnerId).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}

		if err := tx.Model(&domain.OrgMember{}).Where("org_id = ? AND member_id = ?", orgId, s.Identity.ID).
			Update("role", authority.OrgRoleAdmin).Error; err != nil {
			return err
		}
		return tx.Model(&domain.OrgMember{}).Where("org_id = ? AND member_id = ?", orgId, d.NewOwnerId).
			Update("role", authority.OrgRoleOwner).Error
	})
}
