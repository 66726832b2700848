package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Document struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	ResourceType string   `json:"resourceType"`
	ResourceID   types.ID `json:"resourceId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Title   string `json:"title"`
	Content string `json:"content" sql:"type:TEXT"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	UpdateTime time.Time `json:"updateTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

type DocumentCreating struct {
	ResourceType string   `json:"resourceType" binding:"required,oneof=board project"`
	ResourceID   types.ID `json:"resourceId" binding:"required"`

	Title   string `json:"title" binding:"required,lte=120"`
	Content string `json:"content"`
}

type DocumentUpdating struct {
	Title   string `json:"title" binding:"required,lte=120"`
	Content string `json:"content"`
}

type DocumentQuery struct {
	ResourceType string   `form:"resourceType" binding:"required,oneof=board project"`
	ResourceID   types.ID `form:"resourceId" binding:"required"`
}
