package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"notify-gate.backend/internal/audit"
	"notify-gate.backend/internal/config"
	"notify-gate.backend/internal/domain/entities"
	"notify-gate.backend/internal/infrastructure/repositories"
	"notify-gate.backend/internal/usecases"
	"notify-gate.backend/pkg/jwt"
	"notify-gate.backend/pkg/logger"
	"notify-gate.backend/pkg/redis"
)

// Operator tool for minting credentials and service tokens without going
// through the HTTP API. The plaintext secret is printed once and cannot be
// recovered afterwards.

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{PrepareStmt: false})
	}
)

type options struct {
	mode    string
	org     string
	name    string
	scopes  string
	hourly  int
	daily   int
	ttl     time.Duration
	subject string
	role    string
}

func main() {
	opts := parseFlags(os.Args[1:])
	if err := run(opts, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) options {
	fs := flag.NewFlagSet("admin-apikey", flag.ExitOnError)
	var opts options
	fs.StringVar(&opts.mode, "mode", "key", "what to mint: key or token")
	fs.StringVar(&opts.org, "org", "", "organization ID the credential belongs to")
	fs.StringVar(&opts.name, "name", "", "credential name")
	fs.StringVar(&opts.scopes, "scopes", "", "comma-separated scopes, e.g. notifications:send,notifications:read")
	fs.IntVar(&opts.hourly, "hourly", 0, "hourly rate limit (0 = default)")
	fs.IntVar(&opts.daily, "daily", 0, "daily rate limit (0 = default)")
	fs.DurationVar(&opts.ttl, "ttl", 0, "credential lifetime (0 = no expiry)")
	fs.StringVar(&opts.subject, "subject", "", "service token subject")
	fs.StringVar(&opts.role, "role", "admin", "service token role")
	_ = fs.Parse(args)
	return opts
}

func run(opts options, out io.Writer) error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()
	logger.Init(cfg.Server.Env)

	switch opts.mode {
	case "token":
		return mintToken(cfg, opts, out)
	case "key":
		return mintKey(cfg, opts, out)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

func mintToken(cfg *config.Config, opts options, out io.Writer) error {
	if opts.subject == "" {
		return fmt.Errorf("-subject is required in token mode")
	}
	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	token, err := svc.GenerateToken(opts.subject, opts.role)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	fmt.Fprintln(out, token)
	return nil
}

func mintKey(cfg *config.Config, opts options, out io.Writer) error {
	orgID, err := uuid.Parse(opts.org)
	if err != nil {
		return fmt.Errorf("-org must be a valid organization ID")
	}
	if opts.name == "" {
		return fmt.Errorf("-name is required in key mode")
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	apiKeyRepo := repositories.NewApiKeyRepository(db)
	orgRepo := repositories.NewOrganizationRepository(db)
	auditRepo := repositories.NewAuditEventRepository(db)
	auditor := audit.NewDispatcher(audit.DefaultRegistry(auditRepo))

	// The counter is only used by the validation path, never by minting.
	u := usecases.NewApiKeyUsecase(apiKeyRepo, orgRepo, redis.NewRateLimiter(nil), auditor, cfg.RateLimit)

	input := &entities.CreateApiKeyInput{
		Name:            opts.name,
		RateLimitHourly: opts.hourly,
		RateLimitDaily:  opts.daily,
	}
	if opts.scopes != "" {
		input.Scopes = strings.Split(opts.scopes, ",")
	}
	if opts.ttl > 0 {
		expiresAt := time.Now().Add(opts.ttl)
		input.ExpiresAt = &expiresAt
	}

	resp, err := u.CreateApiKey(context.Background(), orgID, input)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	fmt.Fprintf(out, "API key created\n")
	fmt.Fprintf(out, "  id:     %s\n", resp.ID)
	fmt.Fprintf(out, "  org:    %s\n", resp.OrganizationID)
	fmt.Fprintf(out, "  name:   %s\n", resp.Name)
	fmt.Fprintf(out, "  scopes: %s\n", strings.Join(resp.Scopes, ","))
	fmt.Fprintf(out, "  secret: %s\n", resp.Secret)
	fmt.Fprintf(out, "store the secret now; it cannot be shown again\n")
	return nil
}
