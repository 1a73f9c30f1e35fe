package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/userdesk/userdesk/config"
	"github.com/userdesk/userdesk/database"
	"github.com/userdesk/userdesk/database/model"
	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/util/crypto"
	"github.com/userdesk/userdesk/util/random"
	"github.com/userdesk/userdesk/web"
	"github.com/userdesk/userdesk/web/service"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func initLogger(cfg *config.Config) {
	switch cfg.LogLevel {
	case config.Debug:
		logger.InitLogger(logging.DEBUG, cfg.LogFolder)
	case config.Info:
		logger.InitLogger(logging.INFO, cfg.LogFolder)
	case config.Notice:
		logger.InitLogger(logging.NOTICE, cfg.LogFolder)
	case config.Warn:
		logger.InitLogger(logging.WARNING, cfg.LogFolder)
	case config.Error:
		logger.InitLogger(logging.ERROR, cfg.LogFolder)
	default:
		log.Fatal("unknown log level:", cfg.LogLevel)
	}
}

// openDB loads the configuration and opens the seeded database.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	initLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Seed(db, crypto.NewHasher(cfg.HashRounds)); err != nil {
		_ = database.CloseDB(db)
		return nil, nil, err
	}
	return cfg, db, nil
}

func runWebServer() {
	log.Printf("Starting %v %v", config.GetName(), config.GetVersion())

	cfg, db, err := openDB()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			logger.Warning("close database err:", err)
		}
		logger.CloseLogger()
	}()

	server := web.NewServer(cfg, db)
	if err := server.Start(); err != nil {
		logger.Error("start server err:", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting server...")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(cfg, db)
			if err := server.Start(); err != nil {
				logger.Error("restart server err:", err)
				return
			}
		default:
			logger.Info("Shutting down server...")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func seed() {
	_, db, err := openDB()
	if err != nil {
		fmt.Println("seed failed:", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)
	fmt.Println("seed success")
}

func showSetting() {
	cfg, db, err := openDB()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	perms, err := service.NewPermissionService(db).List(context.Background())
	if err != nil {
		fmt.Println("get permissions failed:", err)
	}
	fmt.Println("current settings as follows:")
	fmt.Println("listen:", cfg.ListenAddr())
	fmt.Println("base path:", cfg.BasePath)
	fmt.Println("database:", cfg.Database.Type)
	fmt.Println("session store:", cfg.Session.Store)
	for _, p := range perms {
		fmt.Printf("permission %d: %s\n", p.Id, p.PermName)
	}
}

func resetAdmin(password string) {
	cfg, db, err := openDB()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	perm := model.PermAdmin
	users := service.NewUserService(db, crypto.NewHasher(cfg.HashRounds))
	if _, err := users.Update(context.Background(), "admin", service.UserInput{Password: &password, Permissions: &perm}); err != nil {
		fmt.Println("reset admin failed:", err)
		os.Exit(1)
	}
	fmt.Println("reset admin success")
}

func main() {
	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the schema, permission catalog and default admin",
		Run: func(cmd *cobra.Command, args []string) {
			seed()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show or change settings",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Run: func(cmd *cobra.Command, args []string) {
			showSetting()
		},
	}

	var resetAdminCmd = &cobra.Command{
		Use:   "reset-admin",
		Short: "Reset the admin password and restore its admin permission",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				return fmt.Errorf("--password is required")
			}
			resetAdmin(password)
			return nil
		},
	}
	resetAdminCmd.Flags().String("password", "", "set admin password")

	var cookieKeyCmd = &cobra.Command{
		Use:   "gen-cookie-key",
		Short: "Print a random key suitable for USERDESK_COOKIE_KEY",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(random.Seq(32))
		},
	}

	settingCmd.AddCommand(showCmd, resetAdminCmd, cookieKeyCmd)
	rootCmd.AddCommand(runCmd, seedCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
