package document

import (
	"errors"
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/docsearch"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	documentIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateDocumentFunc  = CreateDocument
	DetailDocumentFunc  = DetailDocument
	QueryDocumentsFunc  = QueryDocuments
	UpdateDocumentFunc  = UpdateDocument
	DeleteDocumentFunc  = DeleteDocument
	SearchDocumentsFunc = SearchDocuments
)

func CreateDocument(c *domain.DocumentCreating, s *session.Session) (*domain.Document, error) {
	if err := requireResourceAccess(c.ResourceType, c.ResourceID, authority.LevelWrite, s); err != nil {
		return nil, err
	}

	now := time.Now()
	doc := domain.Document{ID: idgen.NextID(documentIdWorker),
		ResourceType: c.ResourceType, ResourceID: c.ResourceID,
		Title: c.Title, Content: c.Content,
		CreateTime: now, UpdateTime: now, Creator: s.Identity.ID}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(doc).Error; err != nil {
		return nil, err
	}

	// indexing is fire-and-forget: a search lagging behind a write is
	// acceptable, a failed write is not
	if err := docsearch.IndexDocumentFunc(&doc, s); err != nil {
		logrus.Warnf("failed to index document %v: %v", doc.ID, err)
	}
	return &doc, nil
}

func DetailDocument(id types.ID, s *session.Session) (*domain.Document, error) {
	doc, err := loadDocument(id, s)
	if err != nil {
		return nil, err
	}
	if err := requireResourceAccess(doc.ResourceType, doc.ResourceID, authority.LevelRead, s); err != nil {
		return nil, err
	}
	return doc, nil
}

func QueryDocuments(q *domain.DocumentQuery, s *session.Session) (*[]domain.Document, error) {
	if err := requireResourceAccess(q.ResourceType, q.ResourceID, authority.LevelRead, s); err != nil {
		return nil, err
	}

	var docs []domain.Document
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Document{}).
		Where("resource_type = ? AND resource_id = ?", q.ResourceType, q.ResourceID).
		Order("create_time ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return &docs, nil
}

func UpdateDocument(id types.ID, d *domain.DocumentUpdating, s *session.Session) (*domain.Document, error) {
	doc, err := loadDocument(id, s)
	if err != nil {
		return nil, err
	}
	if err := requireResourceAccess(doc.ResourceType, doc.ResourceID, authority.LevelWrite, s); err != nil {
		return nil, err
	}

	doc.Title = d.Title
	doc.Content = d.Content
	doc.UpdateTime = time.Now()
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.Document{ID: id}).
		Where(domain.Document{ID: id}).
		Update(map[string]interface{}{"title": doc.Title, "content": doc.Content, "update_time": doc.UpdateTime}).
		Error; err != nil {
		return nil, err
	}

	if err := docsearch.IndexDocumentFunc(doc, s); err != nil {
		logrus.Warnf("failed to index document %v: %v", doc.ID, err)
	}
	return doc, nil
}

func DeleteDocument(id types.ID, s *session.Session) error {
	doc, err := loadDocument(id, s)
	if err != nil {
		return err
	}
	if err := requireResourceAccess(doc.ResourceType, doc.ResourceID, authority.LevelAdmin, s); err != nil {
		return err
	}

	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.Document{ID: id}).Delete(&domain.Document{}).Error; err != nil {
		return err
	}

	if err := docsearch.RemoveDocumentIndexFunc(id, s); err != nil {
		logrus.Warnf("failed to remove document index %v: %v", id, err)
	}
	return nil
}

// SearchDocuments scopes the full-text search to the resources the user can
// read, so the index never leaks titles of foreign documents.
func SearchDocuments(query string, s *session.Session) ([]docsearch.DocumentHit, error) {
	boardIds, err := access.BoardAccess.AccessibleResourceIDs(s)
	if err != nil {
		return nil, err
	}
	projectIds, err := access.ProjectAccess.AccessibleResourceIDs(s)
	if err != nil {
		return nil, err
	}

	scopes := map[string][]types.ID{
		domain.ResourceTypeBoard:   boardIds,
		domain.ResourceTypeProject: projectIds,
	}
	return docsearch.SearchDocumentsFunc(query, scopes, s)
}

func loadDocument(id types.ID, s *session.Session) (*domain.Document, error) {
	doc := domain.Document{}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.Document{ID: id}).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func requireResourceAccess(resourceType string, resourceId types.ID, level authority.PermissionLevel, s *session.Session) error {
	resolver, err := access.ForResourceType(resourceType)
	if err != nil {
		return err
	}
	decision, err := resolver.CheckAccess(resourceId, level, s)
	if err != nil {
		return err
	}
	if decision.Denied() {
		return bizerror.ErrForbidden
	}
	return nil
}
