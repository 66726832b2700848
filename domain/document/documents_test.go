package document_test

import (
	"testing"
	"time"

	"huddle/authority"
	"huddle/bizerror"
	"huddle/docsearch"
	"huddle/domain"
	"huddle/domain/document"
	"huddle/persistence"
	"huddle/session"
	"huddle/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) (*[]domain.Document, *[]types.ID) {
	db := testinfra.StartMysqlTestDatabase("huddle")
	*testDatabase = db
	Expect(db.DS.GormDB(nil).AutoMigrate(&domain.Document{}, &domain.Board{}, &domain.Project{},
		&domain.GroupMember{}, &domain.GroupGrant{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS

	indexed := []domain.Document{}
	docsearch.IndexDocumentFunc = func(doc *domain.Document, s *session.Session) error {
		indexed = append(indexed, *doc)
		return nil
	}
	removed := []types.ID{}
	docsearch.RemoveDocumentIndexFunc = func(id types.ID, s *session.Session) error {
		removed = append(removed, id)
		return nil
	}
	return &indexed, &removed
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	docsearch.IndexDocumentFunc = docsearch.IndexDocument
	docsearch.RemoveDocumentIndexFunc = docsearch.RemoveDocumentIndex
	docsearch.SearchDocumentsFunc = docsearch.SearchDocuments
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func seedBoard(t *testing.T, testDatabase *testinfra.TestDatabase, id, creator types.ID) {
	Expect(testDatabase.DS.GormDB(nil).Create(&domain.Board{ID: id, OrgID: 10, Name: "board" + id.String(),
		CreateTime: time.Now(), Creator: creator}).Error).To(BeNil())
}

func grantBoardThroughGroup(t *testing.T, testDatabase *testinfra.TestDatabase, boardId, groupId, memberId types.ID,
	level authority.PermissionLevel) {
	db := testDatabase.DS.GormDB(nil)
	Expect(db.Create(&domain.GroupMember{GroupID: groupId, MemberId: memberId, Role: domain.GroupRoleMember,
		CreateTime: time.Now()}).Error).To(BeNil())
	Expect(db.Create(&domain.GroupGrant{ResourceType: domain.ResourceTypeBoard, ResourceID: boardId,
		GroupID: groupId, Level: level, CreateTime: time.Now(), Creator: 1}).Error).To(BeNil())
}

func TestCreateDocument(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("write access creates and indexes the document", func(t *testing.T) {
		defer teardown(t, testDatabase)
		indexed, _ := setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)

		doc, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "retro notes", Content: "went well"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(doc.Title).To(Equal("retro notes"))
		Expect(doc.ResourceType).To(Equal(domain.ResourceTypeBoard))

		Expect(len(*indexed)).To(Equal(1))
		Expect((*indexed)[0].ID).To(Equal(doc.ID))
	})

	t.Run("read-only access can not create", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelRead)

		doc, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "retro notes"}, testinfra.BuildSession(200))
		Expect(doc).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestDetailDocument(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("absent document is not found, foreign document is forbidden", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)

		doc, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "retro notes"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		found, err := document.DetailDocument(doc.ID, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(found.ID).To(Equal(doc.ID))

		_, err = document.DetailDocument(types.ID(404), testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrNotFound))

		_, err = document.DetailDocument(doc.ID, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestUpdateDocument(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("write access updates content and refreshes the index", func(t *testing.T) {
		defer teardown(t, testDatabase)
		indexed, _ := setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelRead)

		doc, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "retro notes", Content: "v1"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		_, err = document.UpdateDocument(doc.ID, &domain.DocumentUpdating{Title: "retro notes", Content: "v2"},
			testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		updated, err := document.UpdateDocument(doc.ID, &domain.DocumentUpdating{Title: "retro notes", Content: "v2"},
			testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(updated.Content).To(Equal("v2"))
		Expect(len(*indexed)).To(Equal(2))

		stored := domain.Document{}
		Expect(testDatabase.DS.GormDB(nil).Where(&domain.Document{ID: doc.ID}).First(&stored).Error).To(BeNil())
		Expect(stored.Content).To(Equal("v2"))
	})
}

func TestDeleteDocument(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("admin access deletes row and index entry", func(t *testing.T) {
		defer teardown(t, testDatabase)
		_, removed := setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelWrite)

		doc, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "retro notes"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		Expect(document.DeleteDocument(doc.ID, testinfra.BuildSession(200))).To(Equal(bizerror.ErrForbidden))
		Expect(document.DeleteDocument(doc.ID, testinfra.BuildSession(100))).To(BeNil())
		Expect(*removed).To(Equal([]types.ID{doc.ID}))

		var docs []domain.Document
		Expect(testDatabase.DS.GormDB(nil).Find(&docs).Error).To(BeNil())
		Expect(docs).To(BeEmpty())
	})
}

func TestQueryDocuments(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("read access lists the resource's documents", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		seedBoard(t, testDatabase, 2, 100)

		_, err := document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 1, Title: "one"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		_, err = document.CreateDocument(&domain.DocumentCreating{ResourceType: domain.ResourceTypeBoard,
			ResourceID: 2, Title: "other"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		docs, err := document.QueryDocuments(&domain.DocumentQuery{ResourceType: domain.ResourceTypeBoard, ResourceID: 1},
			testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(len(*docs)).To(Equal(1))
		Expect((*docs)[0].Title).To(Equal("one"))

		_, err = document.QueryDocuments(&domain.DocumentQuery{ResourceType: domain.ResourceTypeBoard, ResourceID: 1},
			testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestSearchDocuments(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("search scopes follow the access resolver", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		seedBoard(t, testDatabase, 2, 300)
		grantBoardThroughGroup(t, testDatabase, 2, 20, 100, authority.LevelRead)

		var captured map[string][]types.ID
		docsearch.SearchDocumentsFunc = func(query string, scopes map[string][]types.ID, s *session.Session) ([]docsearch.DocumentHit, error) {
			captured = scopes
			return []docsearch.DocumentHit{}, nil
		}

		_, err := document.SearchDocuments("retro", testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(captured[domain.ResourceTypeBoard]).To(ConsistOf(types.ID(1), types.ID(2)))
		Expect(captured[domain.ResourceTypeProject]).To(BeEmpty())
	})
}
