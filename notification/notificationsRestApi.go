package notification

import (
	"net/http"

	"huddle/bizerror"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
)

var (
	NotificationsApiRoot = "/v1/notifications"

	QueryNotificationsFunc   = QueryNotifications
	MarkNotificationReadFunc = MarkNotificationRead
)

func RegisterNotificationsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(NotificationsApiRoot, middleWares...)
	g.GET("", HandleQueryNotifications)
	g.PUT(":id/read", HandleMarkNotificationRead)
}

func HandleQueryNotifications(c *gin.Context) {
	result, err := QueryNotificationsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleMarkNotificationRead(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := MarkNotificationReadFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}
