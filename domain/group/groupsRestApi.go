package group

import (
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var GroupsApiRoot = "/v1/groups"

func RegisterGroupsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	groups := r.Group(GroupsApiRoot, middleWares...)
	groups.GET("", HandleQueryGroups)
	groups.POST("", HandleCreateGroup)

	groups.GET(":id/members", HandleQueryGroupMembers)
	groups.POST(":id/members", HandleAddGroupMember)
	groups.DELETE(":id/members", HandleRemoveGroupMember)
}

func HandleQueryGroups(c *gin.Context) {
	query := domain.GroupQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(err)
	}
	result, err := QueryGroupsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateGroup(c *gin.Context) {
	payload := domain.GroupCreating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := CreateGroupFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleQueryGroupMembers(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := QueryGroupMembersFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleAddGroupMember(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.GroupMemberCreation{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	if err := AddGroupMemberFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleRemoveGroupMember(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.GroupMemberDeletion{}
	if err := c.ShouldBindQuery(&payload); err != nil {
		panic(err)
	}
	if err := RemoveGroupMemberFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
