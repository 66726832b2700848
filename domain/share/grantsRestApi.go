package share

import (
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RegisterGrantsRestAPI mounts the grant endpoints of both resource types.
func RegisterGrantsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	boards := r.Group("/v1/boards", middleWares...)
	boards.GET(":id/grants", grantsQueryHandler(domain.ResourceTypeBoard))
	boards.POST(":id/grants", grantCreateHandler(domain.ResourceTypeBoard))
	boards.DELETE(":id/grants", grantDeleteHandler(domain.ResourceTypeBoard))

	projects := r.Group("/v1/projects", middleWares...)
	projects.GET(":id/grants", grantsQueryHandler(domain.ResourceTypeProject))
	projects.POST(":id/grants", grantCreateHandler(domain.ResourceTypeProject))
	projects.DELETE(":id/grants", grantDeleteHandler(domain.ResourceTypeProject))
}

func grantsQueryHandler(resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := misc.BindingPathID(c)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		result, err := QueryGrantsFunc(resourceType, id, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, result)
	}
}

func grantCreateHandler(resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := misc.BindingPathID(c)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		payload := domain.GroupGrantCreating{}
		if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
			panic(err)
		}
		result, err := GrantGroupFunc(resourceType, id, &payload, session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, result)
	}
}

func grantDeleteHandler(resourceType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := misc.BindingPathID(c)
		if err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		payload := domain.GroupGrantDeletion{}
		if err := c.ShouldBindQuery(&payload); err != nil {
			panic(err)
		}
		if err := RevokeGroupFunc(resourceType, id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
			panic(err)
		}
		c.Status(http.StatusNoContent)
	}
}
