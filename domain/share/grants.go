package share

import (
	"errors"
	"fmt"
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/notification"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

var (
	GrantGroupFunc  = GrantGroup
	RevokeGroupFunc = RevokeGroup
	QueryGrantsFunc = QueryGrants
)

// GrantGroup attaches a group to a resource with a permission level, or
// changes the level of an existing grant in place. Requires admin on the
// resource; the group must belong to the resource's organization.
func GrantGroup(resourceType string, resourceId types.ID, d *domain.GroupGrantCreating, s *session.Session) (*domain.GroupGrant, error) {
	resolver, err := access.ForResourceType(resourceType)
	if err != nil {
		return nil, err
	}
	decision, err := resolver.CheckAccess(resourceId, authority.LevelAdmin, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	grant := domain.GroupGrant{ResourceType: resourceType, ResourceID: resourceId, GroupID: d.GroupID,
		Level: d.Level, CreateTime: time.Now(), Creator: s.Identity.ID}
	var memberIds []types.ID
	err = persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g := domain.Group{}
		if err := tx.Where(&domain.Group{ID: d.GroupID}).First(&g).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizerror.ErrNotFound
			}
			return err
		}
		if g.OrgID != resourceOrgID(decision.Resource) {
			return bizerror.ErrGroupOutsideOrg
		}

		// composite primary key turns a racing duplicate into an update
		if err := tx.Save(&grant).Error; err != nil {
			return err
		}

		var members []domain.GroupMember
		if err := tx.Model(&domain.GroupMember{}).Where(&domain.GroupMember{GroupID: d.GroupID}).
			Find(&members).Error; err != nil {
			return err
		}
		for _, m := range members {
			memberIds = append(memberIds, m.MemberId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifyGrantedMembers(&grant, decision.Resource, memberIds, s)
	return &grant, nil
}

func RevokeGroup(resourceType string, resourceId types.ID, d *domain.GroupGrantDeletion, s *session.Session) error {
	resolver, err := access.ForResourceType(resourceType)
	if err != nil {
		return err
	}
	decision, err := resolver.CheckAccess(resourceId, authority.LevelAdmin, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where("resource_type = ? AND resource_id = ? AND group_id = ?", resourceType, resourceId, d.GroupID).
		Delete(&domain.GroupGrant{}).Error
}

func QueryGrants(resourceType string, resourceId types.ID, s *session.Session) (*[]domain.GroupGrant, error) {
	resolver, err := access.ForResourceType(resourceType)
	if err != nil {
		return nil, err
	}
	decision, err := resolver.CheckAccess(resourceId, authority.LevelRead, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	var grants []domain.GroupGrant
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(domain.GroupGrant{}).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceId).
		Find(&grants).Error; err != nil {
		return nil, err
	}
	return &grants, nil
}

// notifyGrantedMembers is fire-and-forget: delivery failure never fails the
// grant itself.
func notifyGrantedMembers(grant *domain.GroupGrant, resource access.Resource, memberIds []types.ID, s *session.Session) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	link := fmt.Sprintf("/%ss/%s", grant.ResourceType, grant.ResourceID.String())
	for _, memberId := range memberIds {
		c := notification.NotificationCreating{
			UserID:  memberId,
			Type:    "resource.shared",
			Title:   fmt.Sprintf("%s shared with your group", grant.ResourceType),
			Message: fmt.Sprintf("your group now has %s access on %s %q", grant.Level, grant.ResourceType, resourceName(resource)),
			Link:    link,
		}
		if err := notification.CreateNotificationFunc(&c, db); err != nil {
			logrus.Warnf("failed to notify member %v of grant on %s %v: %v",
				memberId, grant.ResourceType, grant.ResourceID, err)
		}
	}
}

func resourceOrgID(resource access.Resource) types.ID {
	switch r := resource.(type) {
	case domain.Board:
		return r.OrgID
	case domain.Project:
		return r.OrgID
	}
	return 0
}

func resourceName(resource access.Resource) string {
	switch r := resource.(type) {
	case domain.Board:
		return r.Name
	case domain.Project:
		return r.Name
	}
	return ""
}
