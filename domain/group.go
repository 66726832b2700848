package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Group struct {
	ID    types.ID `json:"id" gorm:"primary_key"`
	OrgID types.ID `json:"orgId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name  string   `json:"name"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

// GroupMember holds at most one row per (group, member) pair.
type GroupMember struct {
	GroupID  types.ID `json:"groupId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MemberId types.ID `json:"memberId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Role       string    `json:"role"`
	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
}

const GroupRoleMember = "member"
const GroupRoleAdmin = "admin"

type GroupMemberDetail struct {
	GroupMember

	MemberName string `json:"memberName"`
}

type GroupCreating struct {
	OrgID types.ID `json:"orgId" binding:"required"`
	Name  string   `json:"name" binding:"required,lte=60"`
}

type GroupMemberCreation struct {
	MemberId types.ID `json:"memberId" binding:"required"`
	Role     string   `json:"role" binding:"required,oneof=member admin"`
}

type GroupMemberDeletion struct {
	MemberID types.ID `form:"memberId" binding:"required"`
}

type GroupQuery struct {
	OrgID *types.ID `form:"orgId"`
}
