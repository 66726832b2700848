package domain

import (
	"time"

	"huddle/authority"

	"github.com/fundwit/go-commons/types"
)

type Organization struct {
	ID   types.ID `json:"id" gorm:"primary_key"`
	Name string   `json:"name" gorm:"unique_index:name_idx"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

type OrgMember struct {
	OrgID    types.ID `json:"orgId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	MemberId types.ID `json:"memberId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Role       authority.OrgRole `json:"role"`
	CreateTime time.Time         `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
}

type OrganizationDetail struct {
	Organization

	Role authority.OrgRole `json:"role"`
}

type OrgMemberDetail struct {
	OrgMember

	MemberName string `json:"memberName"`
}

type OrganizationCreating struct {
	Name string `json:"name" binding:"required,lte=60"`
}

type OrganizationUpdating struct {
	Name string `json:"name" binding:"required,lte=60"`
}

type OrgMemberCreation struct {
	MemberId types.ID          `json:"memberId" binding:"required"`
	Role     authority.OrgRole `json:"role" binding:"required,oneof=member admin"`
}

type OrgMemberDeletion struct {
	MemberID types.ID `form:"memberId" binding:"required"`
}

type OrgOwnershipTransfer struct {
	NewOwnerId types.ID `json:"newOwnerId" binding:"required"`
}
