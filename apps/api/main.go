package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/mwalimu/darasa/apps/api/echo"
	"github.com/mwalimu/darasa/core"
	"github.com/mwalimu/darasa/core/assignment"
	"github.com/mwalimu/darasa/core/department"
	emailsvc "github.com/mwalimu/darasa/services/email"
	sendgridmail "github.com/mwalimu/darasa/services/email/sendgrid"
	logsvc "github.com/mwalimu/darasa/services/logger"
	sheetsvc "github.com/mwalimu/darasa/services/sheet"
	dummyblob "github.com/mwalimu/darasa/storage/blob/dummy"
	ossblob "github.com/mwalimu/darasa/storage/blob/oss"
	"github.com/mwalimu/darasa/storage/database"
	sqlxrepos "github.com/mwalimu/darasa/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(logger, err)
	defer func() { _ = db.Close() }()
	xdb := sqlx.NewDb(db, conf.Database.Engine)

	// set up blob storage; in-memory in DEV where no bucket is configured
	var blob core.BlobStore
	if conf.OSS.Bucket == "" {
		blob = dummyblob.NewStore()
	} else {
		blob, err = ossblob.NewStore(conf)
		errAndDie(logger, err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = sendgridmail.NewService(conf, logger)
	}
	asgSvc := assignment.NewService(
		sqlxrepos.NewAssignmentRepository(xdb),
		sqlxrepos.NewCompletionRepository(xdb),
		assignment.NewStore(blob),
		mailSvc,
		logger,
		conf,
	)
	deptSvc := department.NewService(sqlxrepos.NewDepartmentRepository(xdb))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        logger,
			AssignmentSvc: asgSvc,
			DepartmentSvc: deptSvc,
			SheetWriter:   sheetsvc.NewCSVWriter(),
		},
	)
	app.Start()
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
