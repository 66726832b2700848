package document

import (
	"errors"
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var DocumentsApiRoot = "/v1/documents"

func RegisterDocumentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	documents := r.Group(DocumentsApiRoot, middleWares...)
	documents.GET("", HandleQueryDocuments)
	documents.POST("", HandleCreateDocument)
	documents.GET(":id", HandleDetailDocument)
	documents.PUT(":id", HandleUpdateDocument)
	documents.DELETE(":id", HandleDeleteDocument)

	search := r.Group("/v1/document-searches", middleWares...)
	search.GET("", HandleSearchDocuments)
}

func HandleQueryDocuments(c *gin.Context) {
	query := domain.DocumentQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(err)
	}
	result, err := QueryDocumentsFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleCreateDocument(c *gin.Context) {
	payload := domain.DocumentCreating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := CreateDocumentFunc(&payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleDetailDocument(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	result, err := DetailDocumentFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleUpdateDocument(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	payload := domain.DocumentUpdating{}
	if err := c.ShouldBindBodyWith(&payload, binding.JSON); err != nil {
		panic(err)
	}
	result, err := UpdateDocumentFunc(id, &payload, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleDeleteDocument(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteDocumentFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func HandleSearchDocuments(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		panic(&bizerror.ErrBadParam{Cause: errors.New("query parameter q is required")})
	}
	result, err := SearchDocumentsFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}
