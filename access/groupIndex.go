package access

import (
	"huddle/domain"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var UserGroupIDsFunc = UserGroupIDs

// UserGroupIDs returns every group the user belongs to, irrespective of the
// role inside the group. Role distinctions are consumed by group management
// only, never by resource access.
func UserGroupIDs(userId types.ID, s *session.Session) ([]types.ID, error) {
	return userGroupIDs(persistence.ActiveDataSourceManager.GormDB(s.Context), userId)
}

func userGroupIDs(db *gorm.DB, userId types.ID) ([]types.ID, error) {
	var memberships []domain.GroupMember
	if err := db.Model(domain.GroupMember{}).Where(&domain.GroupMember{MemberId: userId}).
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	groupIds := make([]types.ID, 0, len(memberships))
	for _, m := range memberships {
		groupIds = append(groupIds, m.GroupID)
	}
	return groupIds, nil
}
