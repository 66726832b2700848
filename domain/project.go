package domain

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

type Project struct {
	ID    types.ID `json:"id" gorm:"primary_key"`
	OrgID types.ID `json:"orgId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name  string   `json:"name"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

func (p Project) ResourceID() types.ID {
	return p.ID
}

func (p Project) CreatedBy() types.ID {
	return p.Creator
}

type ProjectCreating struct {
	OrgID types.ID `json:"orgId" binding:"required"`
	Name  string   `json:"name" binding:"required,lte=60"`
}

type ProjectUpdating struct {
	Name string `json:"name" binding:"required,lte=60"`
}

type ProjectQuery struct {
	OrgID types.ID `form:"orgId" binding:"required"`
}

// Credential persists only ciphertext and IV, never plaintext.
type Credential struct {
	ID        types.ID `json:"id" gorm:"primary_key"`
	ProjectID types.ID `json:"projectId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`

	Encrypted string `json:"-" sql:"type:TEXT"`
	IV        string `json:"-"`

	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
	Creator    types.ID  `json:"creator"`
}

// CredentialInfo is the listing shape: the encrypted fields are omitted
// entirely from read APIs.
type CredentialInfo struct {
	ID        types.ID `json:"id"`
	ProjectID types.ID `json:"projectId"`

	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`

	CreateTime time.Time `json:"createTime"`
	Creator    types.ID  `json:"creator"`
}

type CredentialCreating struct {
	Name        string `json:"name" binding:"required,lte=60"`
	Type        string `json:"type" binding:"required,lte=30"`
	Description string `json:"description" binding:"lte=200"`
	Secret      string `json:"secret" binding:"required"`
}
