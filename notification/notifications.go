package notification

import (
	"time"

	"huddle/bizerror"
	"huddle/idgen"
	"huddle/persistence"
	"huddle/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	notificationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateNotificationFunc = CreateNotification
)

type Notification struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	UserID types.ID `json:"userId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link"`

	Read       bool      `json:"read"`
	CreateTime time.Time `json:"createTime" sql:"type:DATETIME(3) NOT NULL"`
}

type NotificationCreating struct {
	UserID  types.ID
	Type    string
	Title   string
	Message string
	Link    string
}

// CreateNotification persists a notification inside the caller's transaction
// when one is passed; delivery is persistence only.
func CreateNotification(c *NotificationCreating, db *gorm.DB) error {
	record := Notification{
		ID:         idgen.NextID(notificationIdWorker),
		UserID:     c.UserID,
		Type:       c.Type,
		Title:      c.Title,
		Message:    c.Message,
		Link:       c.Link,
		CreateTime: time.Now(),
	}
	return db.Create(&record).Error
}

func QueryNotifications(s *session.Session) (*[]Notification, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	var records []Notification
	if err := db.Model(&Notification{}).Where(&Notification{UserID: s.Identity.ID}).
		Order("create_time DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return &records, nil
}

func MarkNotificationRead(id types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Transaction(func(tx *gorm.DB) error {
		record := Notification{}
		if err := tx.Where(&Notification{ID: id}).First(&record).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return bizerror.ErrNotFound
			}
			return err
		}
		if record.UserID != s.Identity.ID {
			return bizerror.ErrForbidden
		}
		return tx.Model(&Notification{}).Where(&Notification{ID: id}).Update("read", true).Error
	})
}
