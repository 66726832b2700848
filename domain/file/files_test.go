package file_test

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/domain/file"
	"huddle/persistence"
	"huddle/storage"
	"huddle/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("huddle")
	*testDatabase = db
	Expect(db.DS.GormDB(nil).AutoMigrate(&domain.FileRecord{}, &domain.Board{},
		&domain.GroupMember{}, &domain.GroupGrant{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS

	root, err := ioutil.TempDir("", "huddle-files")
	Expect(err).To(BeNil())
	storage.ActiveStorage = &storage.LocalStorage{Root: root}
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if local, ok := storage.ActiveStorage.(*storage.LocalStorage); ok && local != nil {
		os.RemoveAll(local.Root)
	}
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

func uploadSample(t *testing.T, boardId types.ID, uploader types.ID, content string) *domain.FileRecord {
	record, err := file.UploadFile(&file.FileUploading{
		ResourceType: domain.ResourceTypeBoard, ResourceID: boardId,
		Name: "report.txt", ContentType: "text/plain", Size: int64(len(content)),
		Content: strings.NewReader(content),
	}, testinfra.BuildSession(uploader))
	Expect(err).To(BeNil())
	return record
}

func TestUploadFile(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("write access uploads blob and record", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)

		record := uploadSample(t, 1, 100, "hello")
		Expect(record.Name).To(Equal("report.txt"))
		Expect(record.Size).To(Equal(int64(5)))

		exists, err := storage.ActiveStorage.Exists(record.ObjectKey, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(exists).To(BeTrue())
	})

	t.Run("read-only access can not upload", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelRead)

		record, err := file.UploadFile(&file.FileUploading{
			ResourceType: domain.ResourceTypeBoard, ResourceID: 1,
			Name: "report.txt", ContentType: "text/plain", Size: 5,
			Content: strings.NewReader("hello"),
		}, testinfra.BuildSession(200))
		Expect(record).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestDownloadFile(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("read access round trips the content", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelRead)

		record := uploadSample(t, 1, 100, "hello")

		got, reader, err := file.DownloadFile(record.ID, testinfra.BuildSession(200))
		Expect(err).To(BeNil())
		defer reader.Close()
		Expect(got.ID).To(Equal(record.ID))
		content, err := ioutil.ReadAll(reader)
		Expect(err).To(BeNil())
		Expect(string(content)).To(Equal("hello"))

		_, _, err = file.DownloadFile(record.ID, testinfra.BuildSession(300))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		_, _, err = file.DownloadFile(types.ID(404), testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}

func TestQueryFiles(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("read access lists records without object keys in JSON", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)

		uploadSample(t, 1, 100, "hello")

		records, err := file.QueryFiles(&domain.FileQuery{ResourceType: domain.ResourceTypeBoard, ResourceID: 1},
			testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(len(*records)).To(Equal(1))

		_, err = file.QueryFiles(&domain.FileQuery{ResourceType: domain.ResourceTypeBoard, ResourceID: 1},
			testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestDeleteFile(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("admin access removes record and blob", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)
		grantBoardThroughGroup(t, testDatabase, 1, 20, 200, authority.LevelWrite)

		record := uploadSample(t, 1, 100, "hello")

		Expect(file.DeleteFile(record.ID, testinfra.BuildSession(200))).To(Equal(bizerror.ErrForbidden))
		Expect(file.DeleteFile(record.ID, testinfra.BuildSession(100))).To(BeNil())

		var records []domain.FileRecord
		Expect(testDatabase.DS.GormDB(nil).Find(&records).Error).To(BeNil())
		Expect(records).To(BeEmpty())

		exists, err := storage.ActiveStorage.Exists(record.ObjectKey, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(exists).To(BeFalse())
	})
}

func TestSignedFileURL(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("local storage does not sign urls", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		seedBoard(t, testDatabase, 1, 100)

		record := uploadSample(t, 1, 100, "hello")

		_, err := file.SignedFileURL(record.ID, testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrSignedURLUnsupported))
	})
}
