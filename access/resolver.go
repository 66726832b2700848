package access

import (
	"errors"

	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

type Resource interface {
	ResourceID() types.ID
	CreatedBy() types.ID
}

type DecisionKind string

const (
	// DecisionNotFound: the resource does not exist. Indistinguishable from
	// denial unless the caller deliberately discloses it.
	DecisionNotFound DecisionKind = "not_found"
	// DecisionDenied: the resource exists but the user holds no permission
	// on it at all.
	DecisionDenied DecisionKind = "denied"
	// DecisionGranted: the user holds some permission level; HasAccess tells
	// whether it meets the requirement.
	DecisionGranted DecisionKind = "granted"
)

type Decision struct {
	Kind      DecisionKind `json:"kind"`
	HasAccess bool         `json:"hasAccess"`

	Resource Resource `json:"resource"`

	// Permission is the effective level, populated for DecisionGranted even
	// when it is insufficient for the request.
	Permission authority.PermissionLevel `json:"permission"`
}

func (d Decision) Denied() bool {
	return !d.HasAccess
}

// Resolver is the cascading access resolver, parameterized over its three
// storage accessors so one implementation serves every resource type.
type Resolver struct {
	ResourceType string

	FindResource   func(db *gorm.DB, id types.ID) (Resource, error)
	FindGrants     func(db *gorm.DB, resourceId types.ID) ([]domain.GroupGrant, error)
	MemberGroupIDs func(db *gorm.DB, userId types.ID) ([]types.ID, error)
}

// CheckAccess resolves the effective permission of the session user:
//  1. missing resource: not found, no access.
//  2. creator short-circuit: the creator always holds admin, no grant
//     configuration can weaken it.
//  3. no group memberships: denied.
//  4. no grant intersecting the memberships: denied.
//  5. among intersecting grants the maximum level wins.
func (r *Resolver) CheckAccess(resourceId types.ID, requiredLevel authority.PermissionLevel, s *session.Session) (Decision, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	resource, err := r.FindResource(db, resourceId)
	if err != nil {
		return Decision{}, err
	}
	if resource == nil {
		return Decision{Kind: DecisionNotFound}, nil
	}

	if resource.CreatedBy() == s.Identity.ID {
		return Decision{Kind: DecisionGranted, HasAccess: true, Resource: resource, Permission: authority.LevelAdmin}, nil
	}

	groupIds, err := r.MemberGroupIDs(db, s.Identity.ID)
	if err != nil {
		return Decision{}, err
	}
	if len(groupIds) == 0 {
		return Decision{Kind: DecisionDenied, Resource: resource}, nil
	}

	grants, err := r.FindGrants(db, resourceId)
	if err != nil {
		return Decision{}, err
	}

	memberOf := map[types.ID]bool{}
	for _, id := range groupIds {
		memberOf[id] = true
	}

	var maxLevel authority.PermissionLevel
	for _, grant := range grants {
		if !memberOf[grant.GroupID] {
			continue
		}
		maxLevel = authority.MaxLevel(maxLevel, grant.Level)
	}
	if !maxLevel.IsValid() {
		return Decision{Kind: DecisionDenied, Resource: resource}, nil
	}

	return Decision{Kind: DecisionGranted, HasAccess: maxLevel.Meets(requiredLevel), Resource: resource, Permission: maxLevel}, nil
}

// AccessibleResourceIDs returns the ids the session user may read: owned
// resources plus those granted to any of the user's groups.
func (r *Resolver) AccessibleResourceIDs(s *session.Session) ([]types.ID, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	ids, err := r.findOwnedIDs(db, s.Identity.ID)
	if err != nil {
		return nil, err
	}
	seen := map[types.ID]bool{}
	for _, id := range ids {
		seen[id] = true
	}

	groupIds, err := r.MemberGroupIDs(db, s.Identity.ID)
	if err != nil {
		return nil, err
	}
	if len(groupIds) > 0 {
		var grants []domain.GroupGrant
		if err := db.Model(domain.GroupGrant{}).
			Where("resource_type = ? AND group_id IN (?)", r.ResourceType, groupIds).
			Find(&grants).Error; err != nil {
			return nil, err
		}
		for _, grant := range grants {
			if !seen[grant.ResourceID] {
				seen[grant.ResourceID] = true
				ids = append(ids, grant.ResourceID)
			}
		}
	}
	return ids, nil
}

func findGrants(resourceType string) func(db *gorm.DB, resourceId types.ID) ([]domain.GroupGrant, error) {
	return func(db *gorm.DB, resourceId types.ID) ([]domain.GroupGrant, error) {
		var grants []domain.GroupGrant
		if err := db.Model(domain.GroupGrant{}).
			Where(&domain.GroupGrant{ResourceType: resourceType, ResourceID: resourceId}).
			Find(&grants).Error; err != nil {
			return nil, err
		}
		return grants, nil
	}
}

func findBoard(db *gorm.DB, id types.ID) (Resource, error) {
	board := domain.Board{}
	if err := db.Where(&domain.Board{ID: id}).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return board, nil
}

func findProject(db *gorm.DB, id types.ID) (Resource, error) {
	project := domain.Project{}
	if err := db.Where(&domain.Project{ID: id}).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

func (r *Resolver) findOwnedIDs(db *gorm.DB, userId types.ID) ([]types.ID, error) {
	var ids []types.ID
	switch r.ResourceType {
	case domain.ResourceTypeBoard:
		var boards []domain.Board
		if err := db.Model(domain.Board{}).Where(&domain.Board{Creator: userId}).Find(&boards).Error; err != nil {
			return nil, err
		}
		for _, b := range boards {
			ids = append(ids, b.ID)
		}
	case domain.ResourceTypeProject:
		var projects []domain.Project
		if err := db.Model(domain.Project{}).Where(&domain.Project{Creator: userId}).Find(&projects).Error; err != nil {
			return nil, err
		}
		for _, p := range projects {
			ids = append(ids, p.ID)
		}
	default:
		return nil, bizerror.ErrUnknownResourceType
	}
	return ids, nil
}

var (
	BoardAccess = &Resolver{
		ResourceType:   domain.ResourceTypeBoard,
		FindResource:   findBoard,
		FindGrants:     findGrants(domain.ResourceTypeBoard),
		MemberGroupIDs: userGroupIDs,
	}
	ProjectAccess = &Resolver{
		ResourceType:   domain.ResourceTypeProject,
		FindResource:   findProject,
		FindGrants:     findGrants(domain.ResourceTypeProject),
		MemberGroupIDs: userGroupIDs,
	}

	CheckBoardAccessFunc   = BoardAccess.CheckAccess
	CheckProjectAccessFunc = ProjectAccess.CheckAccess
)

// ForResourceType maps a persisted resource type to its resolver.
func ForResourceType(resourceType string) (*Resolver, error) {
	switch resourceType {
	case domain.ResourceTypeBoard:
		return BoardAccess, nil
	case domain.ResourceTypeProject:
		return ProjectAccess, nil
	default:
		return nil, bizerror.ErrUnknownResourceType
	}
}
