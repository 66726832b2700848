package main

import (
	"log"
	"net/http"

	"huddle/account"
	"huddle/bizerror"
	"huddle/common"
	"huddle/docsearch"
	"huddle/domain"
	"huddle/domain/board"
	"huddle/domain/document"
	"huddle/domain/file"
	"huddle/domain/group"
	"huddle/domain/org"
	"huddle/domain/project"
	"huddle/domain/share"
	"huddle/infra/tracing"
	"huddle/notification"
	"huddle/persistence"
	"huddle/session"
	"huddle/sessions"
	"huddle/storage"
	"huddle/vault"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	tracingCloser, err := tracing.Bootstrap(common.GetServiceName())
	if err != nil {
		log.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer func() {
		_ = tracingCloser.Close()
	}()

	if err := vault.Bootstrap(); err != nil {
		log.Fatalf("vault bootstrap failed %v\n", err)
	}
	if err := storage.Bootstrap(); err != nil {
		log.Fatalf("storage bootstrap failed %v\n", err)
	}
	if _, err := docsearch.CreateClientFromEnv(); err != nil {
		log.Fatalf("elasticsearch client creation failed %v\n", err)
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&domain.Organization{}, &domain.OrgMember{},
		&domain.Group{}, &domain.GroupMember{},
		&domain.Board{}, &domain.Sprint{},
		&domain.Project{}, &domain.Credential{},
		&domain.GroupGrant{},
		&domain.Document{}, &domain.FileRecord{},
		&notification.Notification{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsRestAPI(engine)
	account.RegisterUserSignupRestAPI(engine)

	authed := session.SimpleAuthFilter()
	sessions.RegisterSessionQueryRestAPI(engine, authed)
	account.RegisterUsersRestAPI(engine, authed)
	org.RegisterOrgsRestAPI(engine, authed)
	group.RegisterGroupsRestAPI(engine, authed)
	board.RegisterBoardsRestAPI(engine, authed)
	project.RegisterProjectsRestAPI(engine, authed)
	share.RegisterGrantsRestAPI(engine, authed)
	document.RegisterDocumentsRestAPI(engine, authed)
	file.RegisterFilesRestAPI(engine, authed)
	notification.RegisterNotificationsRestAPI(engine, authed)

	err = engine.Run(":80")
	if err != nil {
		panic(err)
	}
}
