package file

import (
	"io"
	"net/http"

	"huddle/bizerror"
	"huddle/domain"
	"huddle/misc"
	"huddle/session"

	"github.com/gin-gonic/gin"
)

var FilesApiRoot = "/v1/files"

func RegisterFilesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	files := r.Group(FilesApiRoot, middleWares...)
	files.GET("", HandleQueryFiles)
	files.POST("", HandleUploadFile)
	files.GET(":id/content", HandleDownloadFile)
	files.GET(":id/signed-url", HandleSignedFileURL)
	files.DELETE(":id", HandleDeleteFile)
}

func HandleQueryFiles(c *gin.Context) {
	query := domain.FileQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(err)
	}
	result, err := QueryFilesFunc(&query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

// HandleUploadFile accepts multipart/form-data with a "file" part and the
// target resource in form fields.
func HandleUploadFile(c *gin.Context) {
	scope := domain.FileQuery{}
	if err := c.ShouldBind(&scope); err != nil {
		panic(err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	f, err := fileHeader.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer func() {
		_ = f.Close()
	}()

	uploading := FileUploading{
		ResourceType: scope.ResourceType,
		ResourceID:   scope.ResourceID,
		Name:         fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      f,
	}
	result, err := UploadFileFunc(&uploading, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, result)
}

func HandleDownloadFile(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, reader, err := DownloadFileFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = reader.Close()
	}()

	c.Header("Content-Disposition", `attachment; filename="`+record.Name+`"`)
	c.Header("Content-Type", record.ContentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		panic(err)
	}
}

func HandleSignedFileURL(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	url, err := SignedFileURLFunc(id, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func HandleDeleteFile(c *gin.Context) {
	id, err := misc.BindingPathID(c)
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := DeleteFileFunc(id, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}
