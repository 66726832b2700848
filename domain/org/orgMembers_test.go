package org_test

import (
	"testing"
	"time"

	"huddle/account"
	"huddle/authority"
	"huddle/bizerror"
	"huddle/domain"
	"huddle/domain/org"
	"huddle/testinfra"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func seedUser(t *testing.T, testDatabase *testinfra.TestDatabase, id types.ID) {
	Expect(testDatabase.DS.GormDB(nil).Create(&account.User{ID: id, Name: "user" + id.String(), Secret: "x"}).Error).To(BeNil())
}

func TestAddOrgMember(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("org admin can add members, self grant is rejected", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		seedUser(t, testDatabase, 200)

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 100, Role: authority.OrgRoleMember}, testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrMemberSelfGrant))

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 200, Role: authority.OrgRoleMember}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		member := domain.OrgMember{}
		Expect(testDatabase.DS.GormDB(nil).Where("org_id = ? AND member_id = ?", o.ID, 200).First(&member).Error).To(BeNil())
		Expect(member.Role).To(Equal(authority.OrgRoleMember))
	})

	t.Run("target user must exist", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 999, Role: authority.OrgRoleMember}, testinfra.BuildSession(100))
		Expect(err).ToNot(BeNil())
	})

	t.Run("plain members can not manage memberships", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		seedUser(t, testDatabase, 300)
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleMember, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 300, Role: authority.OrgRoleMember}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("only the owner may grant or revoke the admin role", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		seedUser(t, testDatabase, 300)
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 300, Role: authority.OrgRoleAdmin}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 300, Role: authority.OrgRoleAdmin}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		// demoting an existing admin also needs the owner
		seedUser(t, testDatabase, 400)
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 400, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())
		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 400, Role: authority.OrgRoleMember}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})

	t.Run("the owner row is immutable", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		seedUser(t, testDatabase, 100)
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.AddOrgMember(o.ID, &domain.OrgMemberCreation{MemberId: 100, Role: authority.OrgRoleMember}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrOwnerImmutable))
	})
}

func TestRemoveOrgMember(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("removing an absent member is a no-op", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		err = org.RemoveOrgMember(o.ID, &domain.OrgMemberDeletion{MemberID: 999}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
	})

	t.Run("the owner can never be removed", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.RemoveOrgMember(o.ID, &domain.OrgMemberDeletion{MemberID: 100}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrOwnerImmutable))
	})

	t.Run("removing an admin needs the owner", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 300, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.RemoveOrgMember(o.ID, &domain.OrgMemberDeletion{MemberID: 300}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		err = org.RemoveOrgMember(o.ID, &domain.OrgMemberDeletion{MemberID: 300}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
	})
}

func TestTransferOrgOwnership(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	t.Run("owner demotes to admin while the target becomes owner", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleMember, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.TransferOrgOwnership(o.ID, &domain.OrgOwnershipTransfer{NewOwnerId: 200}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())

		old := domain.OrgMember{}
		Expect(db.Where("org_id = ? AND member_id = ?", o.ID, 100).First(&old).Error).To(BeNil())
		Expect(old.Role).To(Equal(authority.OrgRoleAdmin))

		current := domain.OrgMember{}
		Expect(db.Where("org_id = ? AND member_id = ?", o.ID, 200).First(&current).Error).To(BeNil())
		Expect(current.Role).To(Equal(authority.OrgRoleOwner))
	})

	t.Run("only the owner may transfer, and only to an existing member", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)
		db := testDatabase.DS.GormDB(nil)

		o, err := org.CreateOrg(&domain.OrganizationCreating{Name: "acme"}, testinfra.BuildSession(100))
		Expect(err).To(BeNil())
		Expect(db.Create(&domain.OrgMember{OrgID: o.ID, MemberId: 200, Role: authority.OrgRoleAdmin, CreateTime: time.Now()}).Error).To(BeNil())

		err = org.TransferOrgOwnership(o.ID, &domain.OrgOwnershipTransfer{NewOwnerId: 200}, testinfra.BuildSession(200))
		Expect(err).To(Equal(bizerror.ErrForbidden))

		err = org.TransferOrgOwnership(o.ID, &domain.OrgOwnershipTransfer{NewOwnerId: 999}, testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrNotFound))

		err = org.TransferOrgOwnership(o.ID, &domain.OrgOwnershipTransfer{NewOwnerId: 100}, testinfra.BuildSession(100))
		Expect(err).To(Equal(bizerror.ErrMemberSelfGrant))
	})
}
