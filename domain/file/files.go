package file

import (
	"errors"
	"fmt"
	"io"
	"time"

	"huddle/access"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"
	"huddle/storage"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	"github.com/sony/sonyflake"
)

var (
	fileIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	UploadFileFunc    = UploadFile
	QueryFilesFunc    = QueryFiles
	DownloadFileFunc  = DownloadFile
	DeleteFileFunc    = DeleteFile
	SignedFileURLFunc = SignedFileURL

	SignedURLTTL = 15 * time.Minute
)

type FileUploading struct {
	ResourceType string
	ResourceID   types.ID

	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// UploadFile stores the blob first, then the record. An orphan blob from a
// failed record insert is harmless; a record without its blob is not.
func UploadFile(u *FileUploading, s *session.Session) (*domain.FileRecord, error) {
	if err := requireResourceAccess(u.ResourceType, u.ResourceID, authority.LevelWrite, s); err != nil {
		return nil, err
	}

	record := domain.FileRecord{ID: idgen.NextID(fileIdWorker),
		ResourceType: u.ResourceType, ResourceID: u.ResourceID,
		Name: u.Name, ContentType: u.ContentType, Size: u.Size,
		CreateTime: time.Now(), Creator: s.Identity.ID}
	record.ObjectKey = fmt.Sprintf("%s/%s/%s", u.ResourceType, u.ResourceID.String(), record.ID.String())

	if err := storage.ActiveStorage.Upload(record.ObjectKey, u.Content, s); err != nil {
		return nil, err
	}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Create(record).Error; err != nil {
		if cleanupErr := storage.ActiveStorage.Delete(record.ObjectKey, s); cleanupErr != nil {
			logrus.Warnf("failed to clean up blob %s: %v", record.ObjectKey, cleanupErr)
		}
		return nil, err
	}
	return &record, nil
}

func QueryFiles(q *domain.FileQuery, s *session.Session) (*[]domain.FileRecord, error) {
	if err := requireResourceAccess(q.ResourceType, q.ResourceID, authority.LevelRead, s); err != nil {
		return nil, err
	}

	var records []domain.FileRecord
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).Model(&domain.FileRecord{}).
		Where("resource_type = ? AND resource_id = ?", q.ResourceType, q.ResourceID).
		Order("create_time ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func DownloadFile(id types.ID, s *session.Session) (*domain.FileRecord, io.ReadCloser, error) {
	record, err := loadFileRecord(id, s)
	if err != nil {
		return nil, nil, err
	}
	if err := requireResourceAccess(record.ResourceType, record.ResourceID, authority.LevelRead, s); err != nil {
		return nil, nil, err
	}

	reader, err := storage.ActiveStorage.Download(record.ObjectKey, s)
	if err != nil {
		return nil, nil, err
	}
	return record, reader, nil
}

func DeleteFile(id types.ID, s *session.Session) error {
	record, err := loadFileRecord(id, s)
	if err != nil {
		return err
	}
	if err := requireResourceAccess(record.ResourceType, record.ResourceID, authority.LevelAdmin, s); err != nil {
		return err
	}

	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.FileRecord{ID: id}).Delete(&domain.FileRecord{}).Error; err != nil {
		return err
	}
	if err := storage.ActiveStorage.Delete(record.ObjectKey, s); err != nil {
		logrus.Warnf("failed to delete blob %s of file record %v: %v", record.ObjectKey, id, err)
	}
	return nil
}

func SignedFileURL(id types.ID, s *session.Session) (string, error) {
	record, err := loadFileRecord(id, s)
	if err != nil {
		return "", err
	}
	if err := requireResourceAccess(record.ResourceType, record.ResourceID, authority.LevelRead, s); err != nil {
		return "", err
	}

	return storage.ActiveStorage.SignedURL(record.ObjectKey, SignedURLTTL, s)
}

func loadFileRecord(id types.ID, s *session.Session) (*domain.FileRecord, error) {
	record := domain.FileRecord{}
	if err := persistence.ActiveDataSourceManager.GormDB(s.Context).
		Where(&domain.FileRecord{ID: id}).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
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
