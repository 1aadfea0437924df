package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rjokes/config"
	"rjokes/database"
	"rjokes/logger"
	"rjokes/util/random"
	"rjokes/web"
	"rjokes/web/global"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	if err := config.Check(); err != nil {
		log.Fatal(err)
	}

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDatabaseURL())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer()
	global.SetWebServer(server)
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			global.SetWebServer(server)
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func checkConfig() {
	if err := config.Check(); err != nil {
		fmt.Println("config check failed:", err)
		os.Exit(1)
	}
	if err := database.InitDB(config.GetDatabaseURL()); err != nil {
		fmt.Println("database check failed:", err)
		os.Exit(1)
	}
	defer database.CloseDB()
	fmt.Println("config ok")
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "rjokes",
		Short: "A small multi-user jokes web app",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	secretCmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a session-signing secret",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(random.Seq(64))
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and database reachability",
		Run: func(cmd *cobra.Command, args []string) {
			checkConfig()
		},
	}

	rootCmd.AddCommand(secretCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
