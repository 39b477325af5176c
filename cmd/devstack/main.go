package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/devstack"
	"go.uber.org/zap"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to a .env file with DEVSTACK_* overrides")
	var outFilename string
	flag.StringVar(&outFilename, "o", ".env.devstack", "path of the generated server .env file")
	flag.Parse()

	usage := `
Run the marketplace development containers (database, Redis, MailHog)
and write the server environment for them.

Usage:

devstack [-h] [-f ENV_FILE_PATH] [-o OUT_FILE_PATH]

ENV_FILE_PATH: optional .env file read before startup
  DEVSTACK_DB_TYPE    postgres (default) or mariadb
  DEVSTACK_DB_IMAGE   database image override
  DEVSTACK_NO_MAIL    "true" skips the mail catcher
OUT_FILE_PATH: generated file, use it as ENV_FILE for the server

example
  devstack -o .env.devstack && ENV_FILE=.env.devstack server
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	log, _ := zap.NewDevelopment()
	defer func() { _ = log.Sync() }()

	if envFilename != "" {
		log.Info("loading environment", zap.String("file", envFilename))
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal("failed to load environment variables", zap.Error(err))
		}
	}

	opts := devstack.DefaultOptions()
	if v := os.Getenv("DEVSTACK_DB_TYPE"); v != "" {
		opts.DBType = v
	}
	opts.DBImage = os.Getenv("DEVSTACK_DB_IMAGE")
	if os.Getenv("DEVSTACK_NO_MAIL") == "true" {
		opts.MailImage = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	stack, err := devstack.Start(ctx, opts, log)
	if err != nil {
		log.Fatal("failed to start containers", zap.Error(err))
	}

	if err := stack.WriteEnv(outFilename); err != nil {
		log.Error("failed to write env file", zap.String("file", outFilename), zap.Error(err))
	} else {
		log.Info("server environment written", zap.String("file", outFilename))
	}

	<-ctx.Done()
	log.Info("terminating containers")
	stack.Terminate(context.Background())
}
