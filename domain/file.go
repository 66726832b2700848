package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type FileRecord struct {
	ID types.ID `json:"id" gorm:"primary_key"`

	ResourceType string   `json:"resourceType"`
	ResourceID   types.ID `json:"resourceId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	ObjectKey   string `json:"-"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

type FileQuery struct {
	ResourceType string   `form:"resourceType" binding:"required,oneof=board project"`
	ResourceID   types.ID `form:"resourceId" binding:"required"`
}
