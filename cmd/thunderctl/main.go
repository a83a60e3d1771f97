// Command thunderctl runs operator tasks against the Thunder Road database:
// migrations, back-office accounts, API clients and menu seeding.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/franciscosanchezn/thunder-road-api/internal/config"
	"github.com/franciscosanchezn/thunder-road-api/internal/database"
	"github.com/franciscosanchezn/thunder-road-api/internal/menucache"
	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var version = "dev"

// CLI is the top-level command structure for thunderctl.
type CLI struct {
	Version      kong.VersionFlag `help:"Show version." short:"V"`
	Migrate      MigrateCmd       `cmd:"" help:"Create or update the schema and seed default rows."`
	CreateAdmin  CreateAdminCmd   `cmd:"" name:"create-admin" help:"Create a back-office user."`
	CreateClient CreateClientCmd  `cmd:"" name:"create-client" help:"Register an API client for the client_credentials grant."`
	SeedMenu     SeedMenuCmd      `cmd:"" name:"seed-menu" help:"Load menu categories and items from a YAML file."`
}

// MigrateCmd runs the schema migration.
type MigrateCmd struct{}

// CreateAdminCmd creates a back-office user.
type CreateAdminCmd struct {
	Email    string `required:"" help:"Login email."`
	Name     string `help:"Display name." default:"Administrator"`
	Password string `required:"" help:"Initial password." env:"THUNDERCTL_PASSWORD"`
	Role     string `help:"Role of the account." enum:"admin,staff" default:"admin"`
}

// CreateClientCmd registers an API client owned by an existing user.
type CreateClientCmd struct {
	Name       string `required:"" help:"Client name."`
	OwnerEmail string `required:"" name:"owner-email" help:"Email of the owning user; tokens carry the owner's role."`
	Domain     string `help:"Domain the client is used from."`
	Scopes     string `help:"Space separated scopes." default:"read write"`
}

// SeedMenuCmd loads a YAML menu through the menu service.
type SeedMenuCmd struct {
	File string `arg:"" type:"existingfile" help:"YAML menu file."`
}

func (m *MigrateCmd) Run() error {
	db, err := openDatabase()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return m.run(os.Stdout, db)
}

func (m *MigrateCmd) run(w io.Writer, db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(w, "Schema up to date")
	return nil
}

func (c *CreateAdminCmd) Run() error {
	db, err := openDatabase()
	if err != nil {
		return fmt.Errorf("create-admin: %w", err)
	}
	return c.run(context.Background(), os.Stdout, services.NewUserService(db))
}

func (c *CreateAdminCmd) run(ctx context.Context, w io.Writer, users services.UserService) error {
	user := &models.User{Email: c.Email, Name: c.Name, Role: c.Role, Password: c.Password}
	if err := users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create-admin: %w", err)
	}
	fmt.Fprintf(w, "Created %s user %s (id %d)\n", user.Role, user.Email, user.ID)
	return nil
}

func (c *CreateClientCmd) Run() error {
	db, err := openDatabase()
	if err != nil {
		return fmt.Errorf("create-client: %w", err)
	}
	return c.run(context.Background(), os.Stdout, services.NewUserService(db), services.NewClientService(db))
}

func (c *CreateClientCmd) run(ctx context.Context, w io.Writer, users services.UserService, clients services.ClientService) error {
	owner, err := users.GetUserByEmail(ctx, c.OwnerEmail)
	if err != nil {
		return fmt.Errorf("create-client: owner %s: %w", c.OwnerEmail, err)
	}
	client, secret, err := clients.CreateClient(ctx, services.NewClient{
		Name:    c.Name,
		Domain:  c.Domain,
		Scopes:  c.Scopes,
		OwnerID: owner.ID,
	})
	if err != nil {
		return fmt.Errorf("create-client: %w", err)
	}
	fmt.Fprintf(w, "Client ID:     %s\n", client.ID)
	fmt.Fprintf(w, "Client Secret: %s\n", secret)
	fmt.Fprintln(w, "Store the secret now, it cannot be shown again.")
	return nil
}

func (s *SeedMenuCmd) Run() error {
	db, err := openDatabase()
	if err != nil {
		return fmt.Errorf("seed-menu: %w", err)
	}
	menu, err := LoadMenuFile(s.File)
	if err != nil {
		return err
	}
	svc := services.NewMenuService(db, menucache.New(), menucache.DefaultTTL)
	return s.run(context.Background(), os.Stdout, svc, menu)
}

func (s *SeedMenuCmd) run(ctx context.Context, w io.Writer, svc services.MenuService, menu *MenuFile) error {
	result, err := SeedMenu(ctx, svc, menu)
	if err != nil {
		return fmt.Errorf("seed-menu: %w", err)
	}
	fmt.Fprintf(w, "Created %d categories and %d items, skipped %d existing categories\n",
		result.Categories, result.Items, result.Skipped)
	return nil
}

// openDatabase loads the server configuration and connects with it. The
// server's own bootstrap is not repeated here, so migrate must run first.
func openDatabase() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables")
	}
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.InitDatabase(conf.Database())
}

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.WarnLevel)
	database.SetLogLevel(log.WarnLevel)

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("thunderctl"),
		kong.Description("Operator tasks for the Thunder Road API."),
		kong.Vars{"version": version},
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
