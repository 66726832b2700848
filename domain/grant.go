package domain

import (
	"time"

	"huddle/authority"

	"github.com/fundwit/go-commons/types"
)

const (
	ResourceTypeBoard   = "board"
	ResourceTypeProject = "project"
)

// GroupGrant attaches a group to a resource with a permission level.
// The composite primary key keeps at most one grant per (resource, group)
// pair; a racing duplicate grant degrades to an in-place level update.
type GroupGrant struct {
	ResourceType string   `json:"resourceType" gorm:"primary_key"`
	ResourceID   types.ID `json:"resourceId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	GroupID      types.ID `json:"groupId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Level authority.PermissionLevel `json:"level"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

type GroupGrantCreating struct {
	GroupID types.ID                  `json:"groupId" binding:"required"`
	Level   authority.PermissionLevel `json:"level" binding:"required,oneof=read write admin"`
}

type GroupGrantDeletion struct {
	GroupID types.ID `form:"groupId" binding:"required"`
}
