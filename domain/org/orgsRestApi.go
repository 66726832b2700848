package org

import (
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var OrgsApiRoot = "/v1/orgs"

func RegisterOrgsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	orgs := r.Group(OrgsApiRoot, middleWares...)
	orgs.GET("", HandleQueryOrgs)
	orgs.POST("", HandleCreateOrg)
	orgs.PUT(":id", HandleUpdateOrg)

	orgs.GET(":id/members", HandleQueryOrgMembers)
	orgs.POST(":id/members", HandleAddOrgMember)
	orgs.DELETE(":id/members", HandleRemoveOrgMember)
	orgs.POST(":id/owner-transfers", HandleTransferOrgOwnership)
}

func HandleQueryOrgs(c *gin.Context) {
	result, err := QueryOrgsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateOrg(c *gin.Context) {
	payload := domain.OrganizationCreating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := CreateOrgFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleUpdateOrg(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.OrganizationUpdating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	if err := UpdateOrgFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleQueryOrgMembers(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := QueryOrgMembersFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleAddOrgMember(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.OrgMemberCreation{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	if err := AddOrgMemberFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleRemoveOrgMember(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.OrgMemberDeletion{}
	if err := c.ShouldBindQuery(&payload); err != nil {
		panic(err)
	}
	if err := RemoveOrgMemberFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func HandleTransferOrgOwnership(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.OrgOwnershipTransfer{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	if err := TransferOrgOwnershipFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}
