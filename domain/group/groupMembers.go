package group

import (
	"errors"
	"time"

	"huddle/account"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	QueryGroupMembersFunc = QueryGroupMembers
	AddGroupMemberFunc    = AddGroupMember
	RemoveGroupMemberFunc = RemoveGroupMember
)

func QueryGroupMembers(groupId types.ID, s *session.Session) (*[]domain.GroupMemberDetail, error) {
	role, err := QueryGroupRoleFunc(groupId, s)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, bizerror.ErrForbidden
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var members []domain.GroupMember
	if err := db.Model(&domain.GroupMember{}).Where(&domain.GroupMember{GroupID: groupId}).Find(&members).Error; err != nil {
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

	details := make([]domain.GroupMemberDetail, 0, len(members))
	for _, m := range members {
		detail := domain.GroupMemberDetail{GroupMember: m, MemberName: "Unknown"}
		if name, found := names[m.MemberId]; found {
			detail.MemberName = name
		}
		details = append(details, detail)
	}
	return &details, nil
}

// AddGroupMember adds a member or changes the role of an existing member.
// Requires the group admin role; the target must belong to the group's
// organization.
func AddGroupMember(groupId types.ID, d *domain.GroupMemberCreation, s *session.Session) error {
	role, err := QueryGroupRoleFunc(groupId, s)
	if err != nil {
		return err
	}
	if role != domain.GroupRoleAdmin {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g := domain.Group{}
		if err := tx.Where(&domain.Group{ID: groupId}).First(&g).Error; err != nil {
			return err
		}

		user := account.User{ID: d.MemberId}
		if err := tx.Model(&account.User{}).Where(&user).First(&user).Error; err != nil {
			return err
		}

		orgMember := domain.OrgMember{}
		if err := tx.Where("org_id = ? AND member_id = ?", g.OrgID, d.MemberId).First(&orgMember).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrGroupOutsideOrg
			}
			return err
		}

		// demoting the last admin would leave the group unmanageable
		if d.MemberId == s.Identity.ID && d.Role != domain.GroupRoleAdmin {
			count, err := otherAdminCount(tx, groupId, d.MemberId)
			if err != nil {
				return err
			}
			if count == 0 {
				return bizerror.ErrLastGroupAdmin
			}
		}

		record := domain.GroupMember{GroupID: groupId, MemberId: d.MemberId, Role: d.Role, CreateTime: time.Now()}
		return tx.Save(&record).Error
	})
}

func RemoveGroupMember(groupId types.ID, d *domain.GroupMemberDeletion, s *session.Session) error {
	role, err := QueryGroupRoleFunc(groupId, s)
	if err != nil {
		return err
	}
	if role != domain.GroupRoleAdmin {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record := domain.GroupMember{}
		if err := tx.Where("group_id = ? AND member_id = ?", groupId, d.MemberID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if record.Role == domain.GroupRoleAdmin {
			count, err := otherAdminCount(tx, groupId, d.MemberID)
			if err != nil {
				return err
			}
			if count == 0 {
				return bizerror.ErrLastGroupAdmin
			}
		}

		return tx.Where("group_id = ? AND member_id = ?", groupId, d.MemberID).Delete(&domain.GroupMember{}).Error
	})
}

func otherAdminCount(tx *gorm.DB, groupId, memberId types.ID) (int, error) {
	var count int
	err := tx.Model(&domain.GroupMember{}).
		Where("group_id = ? AND member_id != ? AND role = ?", groupId, memberId, domain.GroupRoleAdmin).
		Count(&count).Error
	return count, err
}
