package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Board struct {
	ID    types.ID `json:"id" gorm:"primary_key"`
	OrgID types.ID `json:"orgId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name  string   `json:"name"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

func (b Board) ResourceID() types.ID {
	return b.ID
}

func (b Board) CreatedBy() types.ID {
	return b.Creator
}

type BoardCreating struct {
	OrgID types.ID `json:"orgId" binding:"required"`
	Name  string   `json:"name" binding:"required,lte=60"`
}

type BoardUpdating struct {
	Name string `json:"name" binding:"required,lte=60"`
}

type BoardQuery struct {
	OrgID types.ID `form:"orgId" binding:"required"`
}

const (
	SprintStatusPlanning  = "planning"
	SprintStatusActive    = "active"
	SprintStatusCompleted = "completed"
)

type Sprint struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	BoardID types.ID `json:"boardId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name    string   `json:"name"`
	Status  string   `json:"status"`

	StartTime *time.Time `json:"startTime" sql:"type:DATETIME(3)"`
	EndTime   *time.Time `json:"endTime" sql:"type:DATETIME(3)"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

type SprintCreating struct {
	BoardID types.ID `json:"boardId" binding:"required"`
	Name    string   `json:"name" binding:"required,lte=60"`

	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}
