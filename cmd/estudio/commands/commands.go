package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/blobstore"
	"github.com/Fernandol1z6/site-do-estudio/internal/adapters/repository"
	"github.com/Fernandol1z6/site-do-estudio/internal/application/services"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/config"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/database"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/logger"
	"github.com/Fernandol1z6/site-do-estudio/internal/infrastructure/server"
	"github.com/Fernandol1z6/site-do-estudio/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the studio content service",
		Long:  "Start the HTTP server with the public content API and the session-gated admin surface",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage the postgres blob store schema (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the content document to a JSON file",
		Run: func(cmd *cobra.Command, args []string) {
			outDir, _ := cmd.Flags().GetString("out")
			runExport(outDir)
		},
	}
	exportCmd.Flags().StringP("out", "o", ".", "Directory to write the backup file to")
	return exportCmd
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a content document, replacing the stored one",
		Run: func(cmd *cobra.Command, args []string) {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				log.Fatal("A file is required")
			}
			runImport(file)
		},
	}
	importCmd.Flags().StringP("file", "f", "", "Backup file to import (required)")
	return importCmd
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Admin account commands",
		Long:  "Inspect and manage the three fixed admin accounts",
	}

	userCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the admin accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	})

	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset an account password",
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := cmd.Flags().GetInt64("id")
			password, _ := cmd.Flags().GetString("password")
			if id == 0 || password == "" {
				log.Fatal("Both --id and --password are required")
			}
			resetPassword(id, password)
		},
	}
	resetCmd.Flags().Int64("id", 0, "Account id (1-3)")
	resetCmd.Flags().String("password", "", "New password (min 6 characters)")
	userCmd.AddCommand(resetCmd)

	return userCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}

// openStore builds the configured blob store, returning the database handle
// when the postgres driver is selected.
func openStore(cfg *config.Config) (ports.BlobStore, *database.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.New(cfg.Storage.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return blobstore.NewPostgresStore(db), db, nil
	case "memory":
		return blobstore.NewMemoryStore(), nil, nil
	default:
		store, err := blobstore.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, db, err := openStore(cfg)
	if err != nil {
		appLogger.Fatal("Failed to open storage", "error", err)
	}
	if db != nil {
		defer db.Close()
	}

	srv, err := server.New(cfg, store, db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting studio content service",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"storage_driver", cfg.Storage.Driver,
		"remote_enabled", cfg.Remote.Enabled,
	)

	if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		appLogger.Fatal("Server failed to start", "error", err)
	}
}

func runMigration(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Storage.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration failed: %v", err)
	}

	if err == migrate.ErrNoChange {
		fmt.Println("No migrations to run")
	} else {
		fmt.Printf("Migration %s completed successfully\n", direction)
	}
}

func showMigrationVersion() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg.Storage.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		log.Fatalf("Failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		log.Fatalf("Failed to create migration instance: %v", err)
	}

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		fmt.Println("No migrations applied")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}
	fmt.Printf("Version: %d (dirty: %v)\n", version, dirty)
}

func runExport(outDir string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	contentRepo := repository.NewLocalContentRepository(store)
	backup := services.NewBackupService(contentRepo, appLogger)

	doc, filename, err := backup.Export(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	path := filepath.Join(outDir, filename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Printf("Exported document to %s\n", path)
}

func runImport(file string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", file, err)
	}

	contentRepo := repository.NewLocalContentRepository(store)
	backup := services.NewBackupService(contentRepo, appLogger)

	doc, err := backup.Import(context.Background(), raw)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	fmt.Printf("Imported document: %d photos, %d work cards, %d services\n",
		len(doc.Photos), len(doc.WorkCards), len(doc.Services))
}

func listUsers() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	users, err := repository.NewUserDirectory(store).Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load users: %v", err)
	}

	for _, u := range users {
		state := "inactive"
		if u.Active {
			state = "active"
		}
		password := "not configured"
		if u.HasPassword() {
			password = "configured"
		}
		fmt.Printf("%d\t%s\t%s\t%s\tpassword %s\n", u.ID, u.Username, u.Name, state, password)
	}
}

func resetPassword(id int64, password string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	userDir := repository.NewUserDirectory(store)
	sessionRepo := repository.NewSessionRepository(store)
	sessions := services.NewSessionService(userDir, sessionRepo, cfg.Session, appLogger)

	if err := sessions.EditUserPassword(context.Background(), id, password, password); err != nil {
		log.Fatalf("Failed to reset password: %v", err)
	}
	fmt.Printf("Password for account %d updated\n", id)
}
