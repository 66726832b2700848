package board

import (
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var BoardsApiRoot = "/v1/boards"

func RegisterBoardsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	boards := r.Group(BoardsApiRoot, middleWares...)
	boards.GET("", HandleQueryBoards)
	boards.POST("", HandleCreateBoard)
	boards.GET(":id", HandleDetailBoard)
	boards.PUT(":id", HandleUpdateBoard)
	boards.DELETE(":id", HandleDeleteBoard)

	boards.GET(":id/sprints", HandleQuerySprints)

	sprints := r.Group("/v1/sprints", middleWares...)
	sprints.POST("", HandleCreateSprint)
	sprints.PUT(":id/activations", HandleActivateSprint)
	sprints.PUT(":id/completions", HandleCompleteSprint)
	sprints.DELETE(":id", HandleDeleteSprint)
}

func HandleQueryBoards(c *gin.Context) {
	query := domain.BoardQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(err)
	}
	result, err := QueryBoardsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateBoard(c *gin.Context) {
	payload := domain.BoardCreating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := CreateBoardFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleDetailBoard(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := DetailBoardFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleUpdateBoard(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.BoardUpdating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	if err := UpdateBoardFunc(id, &payload, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleDeleteBoard(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteBoardFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func HandleQuerySprints(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := QuerySprintsFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateSprint(c *gin.Context) {
	payload := domain.SprintCreating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := CreateSprintFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleActivateSprint(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := ActivateSprintFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleCompleteSprint(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := CompleteSprintFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusOK)
}

func HandleDeleteSprint(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteSprintFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
