package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vesperhq/authkit/pkg/auth"
	"github.com/vesperhq/authkit/pkg/config"
	"github.com/vesperhq/authkit/pkg/email"
	"github.com/vesperhq/authkit/pkg/jwt"
	"github.com/vesperhq/authkit/pkg/logger"
	"github.com/vesperhq/authkit/pkg/mongo"
	"github.com/vesperhq/authkit/pkg/secrets"
)

// Module is the assembled identity core: the orchestrator plus the durable
// store it runs against. The embedding application mounts its own transport
// on top.
type Module struct {
	Auth  *auth.Service
	Store *CredentialStore
	Log   *slog.Logger
}

// New loads all required configuration from the environment and wires the
// module. Every missing key, unreachable database or malformed secret is a
// startup failure here; nothing is deferred to request time.
func New(ctx context.Context) (*Module, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	var mongoCfg mongo.Config
	if err := config.Load(&mongoCfg); err != nil {
		return nil, err
	}
	var secretsCfg secrets.Config
	if err := config.Load(&secretsCfg); err != nil {
		return nil, err
	}
	var jwtCfg jwt.Config
	if err := config.Load(&jwtCfg); err != nil {
		return nil, err
	}

	codec, err := secrets.NewFromConfig(secretsCfg)
	if err != nil {
		return nil, err
	}
	issuer, err := jwt.NewIssuerFromConfig(jwtCfg)
	if err != nil {
		return nil, err
	}

	db, err := mongo.ConnectDatabase(ctx, mongoCfg, cfg.Database)
	if err != nil {
		return nil, err
	}
	store := NewCredentialStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	sender, err := newSender(cfg)
	if err != nil {
		return nil, err
	}
	notifier := NewMailNotifier(sender, cfg.AppName, cfg.BaseURL)

	log := logger.New(logger.WithAttr(slog.String("service", "authkit")))

	svc, err := auth.NewService(store, notifier, codec, issuer,
		auth.WithIssuerName(cfg.AppName),
		auth.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return &Module{Auth: svc, Store: store, Log: log}, nil
}

func newSender(cfg Config) (email.Sender, error) {
	if cfg.EmailDevDir != "" {
		return email.NewDevSender(cfg.EmailDevDir), nil
	}

	var emailCfg email.Config
	if err := config.Load(&emailCfg); err != nil {
		return nil, err
	}
	sender, err := email.NewPostmarkSender(emailCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mail sender: %w", err)
	}
	return sender, nil
}
