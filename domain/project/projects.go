package project

import (
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	projectIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateProjectFunc = CreateProject
	DetailProjectFunc = DetailProject
	QueryProjectsFunc = QueryProjects
	UpdateProjectFunc = UpdateProject
	DeleteProjectFunc = DeleteProject
)

func CreateProject(c *domain.ProjectCreating, s *session.Session) (*domain.Project, error) {
	oa, err := access.CheckOrgAccessFunc(c.OrgID, authority.OrgRoleMember, s)
	if err != nil {
		return nil, err
	}
	if !oa.HasAccess {
		return nil, bizerror.ErrForbidden
	}

	p := domain.Project{ID: idgen.NextID(projectIdWorker), OrgID: c.OrgID, Name: c.Name,
		CreateTime: time.Now(), Creator: s.Identity.ID}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

type ProjectDetail struct {
	domain.Project

	Permission authority.PermissionLevel `json:"permission"`
}

// DetailProject returns the project with the caller's effective permission.
// An absent project and a denied project are indistinguishable here.
func DetailProject(id types.ID, s *session.Session) (*ProjectDetail, error) {
	decision, err := access.CheckProjectAccessFunc(id, authority.LevelRead, s)
	if err != nil {
		return nil, err
	}
	if decision.Denied() {
		return nil, bizerror.ErrForbidden
	}

	p := decision.Resource.(domain.Project)
	return &ProjectDetail{Project: p, Permission: decision.Permission}, nil
}

func QueryProjects(q *domain.ProjectQuery, s *session.Session) (*[]domain.Project, error) {
	ids, err := access.ProjectAccess.AccessibleResourceIDs(s)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &[]domain.Project{}, nil
	}

	var projects []domain.Project
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Project{}).
		Where("id IN (?) AND org_id = ?", ids, q.OrgID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return &projects, nil
}

func UpdateProject(id types.ID, d *domain.ProjectUpdating, s *session.Session) error {
	decision, err := access.CheckProjectAccessFunc(id, authority.LevelWrite, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Project{ID: id}).
		Where(domain.Project{ID: id}).Update(domain.Project{Name: d.Name}).Error
}

// DeleteProject removes the project with its credentials, grants, documents
// and file records in one transaction.
func DeleteProject(id types.ID, s *session.Session) error {
	decision, err := access.CheckProjectAccessFunc(id, authority.LevelAdmin, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}

	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&domain.Credential{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeProject, id).
			Delete(&domain.GroupGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeProject, id).
			Delete(&domain.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_type = ? AND resource_id = ?", domain.ResourceTypeProject, id).
			Delete(&domain.FileRecord{}).Error; err != nil {
			return err
		}
		return tx.Where(&domain.Project{ID: id}).Delete(&domain.Project{}).Error
	})
}
