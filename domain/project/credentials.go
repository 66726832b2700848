package project

import (
	"errors"
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"
	"huddle/vault"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	credentialIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateCredentialFunc  = CreateCredential
	QueryCredentialsFunc  = QueryCredentials
	DeleteCredentialFunc  = DeleteCredential
	DecryptCredentialFunc = DecryptCredential
)

// CreateCredential seals the secret before it ever touches the database.
func CreateCredential(projectId types.ID, c *domain.CredentialCreating, s *session.Session) (*domain.CredentialInfo, error) {
	decision, err := access.CheckProjectAccessFunc(projectId, authority.LevelWrite, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	sealed, err := vault.SealFunc(c.Secret)
	if err != nil {
		return nil, err
	}

	cred := domain.Credential{ID: idgen.NextID(credentialIdWorker), ProjectID: projectId,
		Name: c.Name, Type: c.Type, Description: c.Description,
		Encrypted: sealed.Encrypted, IV: sealed.IV,
		CreateTime: time.Now(), Creator: s.Identity.ID}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(cred).Error; err != nil {
		return nil, err
	}
	return credentialInfo(&cred), nil
}

func QueryCredentials(projectId types.ID, s *session.Session) (*[]domain.CredentialInfo, error) {
	decision, err := access.CheckProjectAccessFunc(projectId, authority.LevelRead, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	var creds []domain.Credential
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Credential{}).
		Where(&domain.Credential{ProjectID: projectId}).Order("create_time ASC").
		Find(&creds).Error; err != nil {
		return nil, err
	}

	infos := make([]domain.CredentialInfo, 0, len(creds))
	for i := range creds {
		infos = append(infos, *credentialInfo(&creds[i]))
	}
	return &infos, nil
}

func DeleteCredential(id types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	cred := domain.Credential{}
	if err := db.Where(&domain.Credential{ID: id}).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotFound
		}
		return err
	}

	decision, err := access.CheckProjectAccessFunc(cred.ProjectID, authority.LevelAdmin, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return db.Where(&domain.Credential{ID: id}).Delete(&domain.Credential{}).Error
}

// DecryptCredential recovers the plaintext secret for in-process consumers.
// It is deliberately not exposed over REST; admin on the owning project is
// required even here.
func DecryptCredential(id types.ID, s *session.Session) (string, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	cred := domain.Credential{}
	if err := db.Where(&domain.Credential{ID: id}).First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", bizerror.ErrNotFound
		}
		return "", err
	}

	decision, err := access.CheckProjectAccessFunc(cred.ProjectID, authority.LevelAdmin, s)
	if err != nil {
		return "", err
	}
	if decision.Denied() {
		return "", bizerror.ErrForbidden
	}

	return vault.OpenFunc(cred.Encrypted, cred.IV)
}

func credentialInfo(c *domain.Credential) *domain.CredentialInfo {
	return &domain.CredentialInfo{ID: c.ID, ProjectID: c.ProjectID,
		Name: c.Name, Type: c.Type, Description: c.Description,
		CreateTime: c.CreateTime, Creator: c.Creator}
}
