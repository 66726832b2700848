package share_test

import (
	"testing"
	"time"

	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/domain/share"
	"huddle/notification"
	"huddle/persistence"
	"huddle/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	. "github.com/onsi/gomega"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) *[]notification.NotificationCreating {
	db := testinfra.StartMysqlTestDatabase("huddle")
	*testDatabase = db
	Expect(db.DS.GormDB(nil).AutoMigrate(&domain.Board{}, &domain.Project{}, &domain.Group{},
		&domain.GroupMember{}, &domain.GroupGrant{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS

	delivered := []notification.NotificationCreating{}
	notification.CreateNotificationFunc = func(c *notification.NotificationCreating, db *gorm.DB) error {
		delivered = append(delivered, *c)
		return nil
	}
	return &delivered
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	notification.CreateNotificationFunc = notification.CreateNotification
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func seedBoard(t *testing.T, testDatabase *testinfra.TestDatabase, id, orgId, creator types.ID) {
	Expect(testDatabase.DS.GormDB(nil).Create(&domain.Board{ID: id, OrgID: orgId, Name: "board" + id.String(),
		CreateTime: time.Now(), Creator: creator}).Error).To(BeNil())
}

func seedGroup(t *testing.T, testDatabase *testinfra.TestDatabase, id, orgId types.ID, memberIds ...types.ID) {
	db := testDatabase.DS.GormDB(nil)
	Expect(db.Create(&domain.Group{ID: id, OrgID: orgId, Name: "group" + id.String(),
		CreateTime: time.Now(), Creator: 1}).Error).To(BeNil())
	for _, memberId := range memberIds {
		Expect(db.Create(&domain.GroupMember{GroupID: id, MemberId: memberId, Role: domain.GroupRoleMember,
			CreateTime: time.Now()}).Error).To(BeNil())
	}
}

func TestGrantGroup(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("resource admin grants a group and members are notified", func(t *testing.T) {
		defer teardown(t, testDatabase)
		delivered := setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)
		seedGroup(t, testDatabase, 20, 10, 200, 300)

		grant, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelWrite}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(grant.Level).To(Equal(authority.LevelWrite))
		Expect(grant.ResourceType).To(Equal(domain.ResourceTypeBoard))

		Expect(len(*delivered)).To(Equal(2))
		Expect((*delivered)[0].Type).To(Equal("resource.shared"))
		Expect((*delivered)[0].UserID).To(Equal(types.ID(200)))
		Expect((*delivered)[1].UserID).To(Equal(types.ID(300)))
	})

	t.Run("granting again replaces the level instead of duplicating", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)
		seedGroup(t, testDatabase, 20, 10, 200)

		_, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelRead}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		_, err = share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelAdmin}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		var grants []domain.GroupGrant
		Expect(testDatabase.DS.GormDB(nil).Find(&grants).Error).To(BeNil())
		Expect(len(grants)).To(Equal(1))
		Expect(grants[0].Level).To(Equal(authority.LevelAdmin))
	})

	t.Run("group of another org is rejected", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)
		seedGroup(t, testDatabase, 20, 11, 200)

		grant, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelRead}, testinfra.BuildSession(100))
		Expect(grant).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrGroupOutsideOrg))
	})

	t.Run("missing group and missing admin rights are rejected", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)

		grant, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 999, Level: authority.LevelRead}, testinfra.BuildSession(100))
		Expect(grant).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrNotFound))

		grant, err = share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 999, Level: authority.LevelRead}, testinfra.BuildSession(200))
		Expect(grant).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestRevokeGroup(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("revoking removes the grant and downstream access", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)
		seedGroup(t, testDatabase, 20, 10, 200)
		_, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelWrite}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		err = share.RevokeGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantDeletion{GroupID: 20}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		err = share.RevokeGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantDeletion{GroupID: 20}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		var grants []domain.GroupGrant
		Expect(testDatabase.DS.GormDB(nil).Find(&grants).Error).To(BeNil())
		Expect(grants).To(BeEmpty())
	})
}

func TestQueryGrants(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("read level is enough to list grants", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		seedBoard(t, testDatabase, 1, 10, 100)
		seedGroup(t, testDatabase, 20, 10, 200)
		_, err := share.GrantGroup(domain.ResourceTypeBoard, types.ID(1),
			&domain.GroupGrantCreating{GroupID: 20, Level: authority.LevelRead}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		grants, err := share.QueryGrants(domain.ResourceTypeBoard, types.ID(1), testinfra.BuildSession(200))
		Expect(err).To(BeNil())
		Expect(len(*grants)).To(Equal(1))

		grants, err = share.QueryGrants(domain.ResourceTypeBoard, types.ID(1), testinfra.BuildSession(300))
		Expect(grants).To(BeNil())
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}
