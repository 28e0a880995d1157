package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"docs-approval-backend/internal/config"
	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
	"docs-approval-backend/internal/repository"
	"docs-approval-backend/internal/repository/sqlstore"
	"docs-approval-backend/internal/storage"
)

type SeedUser struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Email        string `yaml:"email"`
	Role         string `yaml:"role"`
	StorageQuota int64  `yaml:"storage_quota"`
}

type SeedFile struct {
	Owner string `yaml:"owner"`
	Path  string `yaml:"path"`
	Name  string `yaml:"name"`
}

type SetupData struct {
	Users []SeedUser `yaml:"users"`
	Files []SeedFile `yaml:"files"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	setupFile := flag.String("data", "cmd/data-setup/seed.yaml", "Path to the seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	setupData, err := readSetupFile(*setupFile)
	if err != nil {
		log.Fatalf("Failed to read setup file: %v", err)
	}

	ctx := context.Background()
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("Invalid database driver: %v", err)
	}
	db, err := sqlstore.Open(ctx, dialect, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := sqlstore.Migrate(db, dialect); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	files, err := storage.NewLocalStore(storage.Config{DataDir: cfg.Storage.DataDir, TempDir: cfg.Storage.TempDir})
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	store := sqlstore.NewStore(db, dialect)
	if err := populateData(ctx, store, files, setupData, filepath.Dir(*setupFile), cfg.Registration.DefaultStorageQuota); err != nil {
		log.Fatalf("Failed to populate data: %v", err)
	}

	log.Println("Seed data successfully populated")
}

func readSetupFile(filename string) (*SetupData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var setupData SetupData
	if err := yaml.Unmarshal(data, &setupData); err != nil {
		return nil, err
	}
	return &setupData, nil
}

// populateData creates users in one transaction, then encrypts and records
// each seed file under its owner's key. Relative file paths resolve against baseDir.
func populateData(ctx context.Context, store repository.Store, files storage.FileStore, data *SetupData, baseDir string, defaultQuota int64) error {
	created := map[string]*domain.User{}

	err := store.WithTx(ctx, func(tx repository.Store) error {
		for i, u := range data.Users {
			log.Printf("Creating user %d/%d: %s", i+1, len(data.Users), u.Username)

			role := domain.UserRole(u.Role)
			if role == "" {
				role = domain.UserRoleUser
			}
			if role != domain.UserRoleUser && role != domain.UserRoleAdmin {
				return fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
			}
			key, err := storage.GeneratePrivateKey()
			if err != nil {
				return err
			}

			quota := u.StorageQuota
			if quota <= 0 {
				quota = defaultQuota
			}
			user := &domain.User{
				Username:     u.Username,
				PasswordHash: string(hash),
				Email:        u.Email,
				Role:         role,
				StorageQuota: quota,
				PrivateKey:   key,
			}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			created[u.Username] = user
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range data.Files {
		owner, ok := created[f.Owner]
		if !ok {
			return fmt.Errorf("file %s: unknown owner %q", f.Path, f.Owner)
		}
		if err := seedFile(ctx, store, files, owner, f, baseDir); err != nil {
			return err
		}
	}
	return nil
}

func seedFile(ctx context.Context, store repository.Store, files storage.FileStore, owner *domain.User, f SeedFile, baseDir string) error {
	path := f.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer in.Close()

	name := f.Name
	if name == "" {
		name = filepath.Base(path)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	record := &domain.File{ID: uuid.NewString(), UserID: owner.ID, Name: &name, MimeType: mimeType}
	size, err := files.Save(record.ID, owner.PrivateKey, in)
	if err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	record.Size = size

	if err := store.Files().Create(ctx, record); err != nil {
		files.Delete(record.ID)
		return err
	}
	log.Printf("  File %s stored as %s for %s", name, record.ID, owner.Username)
	return nil
}
