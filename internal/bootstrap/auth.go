package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/studyhall/studyhall-api/config"
	"github.com/studyhall/studyhall-api/internal/adapters/googleauth"
	"github.com/studyhall/studyhall-api/internal/adapters/gotrue"
	"github.com/studyhall/studyhall-api/internal/adapters/localratelimit"
	redisadapter "github.com/studyhall/studyhall-api/internal/adapters/redis"
	"github.com/studyhall/studyhall-api/internal/adapters/sessiontoken"
	"github.com/studyhall/studyhall-api/internal/data"
	"github.com/studyhall/studyhall-api/internal/ports"
	"github.com/studyhall/studyhall-api/internal/service"
)

// AuthServicesConfig contains the dependencies for building the auth
// and profile services.
type AuthServicesConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// AuthServices bundles the services the HTTP layer consumes.
type AuthServices struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
}

// BuildAuthServices wires the identity-provider client, token issuer,
// Google verifier, and login limiter into the auth and profile services.
//
// The Google verifier performs OIDC discovery against accounts.google.com,
// so construction needs a context.
func BuildAuthServices(ctx context.Context, cfg AuthServicesConfig) (AuthServices, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := gotrue.New(gotrue.Options{
		BaseURL:    cfg.Auth.IdentityProvider.URL,
		ServiceKey: cfg.Auth.IdentityProvider.ServiceKey,
	})
	if err != nil {
		return AuthServices{}, fmt.Errorf("build identity provider client: %w", err)
	}

	directory := buildDirectoryLookup(provider, cfg.Auth.IdentityProvider)

	issuer, err := sessiontoken.NewIssuer(sessiontoken.IssuerOptions{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.SessionTTL,
	})
	if err != nil {
		return AuthServices{}, fmt.Errorf("build session token issuer: %w", err)
	}

	var google ports.GoogleVerifier
	if cfg.Auth.GoogleClientID != "" {
		verifier, verr := googleauth.NewVerifier(ctx, googleauth.Config{
			ClientID: cfg.Auth.GoogleClientID,
		})
		if verr != nil {
			return AuthServices{}, fmt.Errorf("build google verifier: %w", verr)
		}
		google = verifier
	} else {
		logger.Info("google login disabled: no client ID configured")
	}

	limiter, err := buildLoginLimiter(cfg, logger)
	if err != nil {
		return AuthServices{}, err
	}

	profiles := data.NewProfileRepo(cfg.DB)

	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider:  provider,
		Directory: directory,
		Google:    google,
		Profiles:  profiles,
		Tokens:    issuer,
		Limiter:   limiter,
		Logger:    logger,
	})

	profile := service.NewProfileService(service.ProfileServiceOptions{
		Profiles: profiles,
		Logger:   logger,
	})

	return AuthServices{Auth: auth, Profile: profile}, nil
}

//nolint:ireturn // the lookup strategy is selected at runtime from configuration.
func buildDirectoryLookup(client *gotrue.Client, cfg config.IdentityProviderConfig) ports.DirectoryLookup {
	if cfg.Lookup == config.LookupModeScan {
		return &gotrue.ScanLookup{
			Client:   client,
			PerPage:  cfg.ScanPerPage,
			MaxPages: cfg.ScanMaxPages,
		}
	}
	return &gotrue.FilterLookup{Client: client}
}

// buildLoginLimiter picks the throttling backend: redis when available,
// an in-process limiter otherwise, nil when throttling is disabled.
//
//nolint:ireturn // the limiter backend is selected at runtime from configuration.
func buildLoginLimiter(cfg AuthServicesConfig, logger *slog.Logger) (ports.LoginLimiter, error) {
	if cfg.Auth.LoginLimit.Limit <= 0 {
		return nil, nil
	}

	if cfg.RedisClient != nil {
		limiter, err := redisadapter.NewLoginLimiter(cfg.RedisClient, redisadapter.LoginLimiterOptions{
			Limit:  cfg.Auth.LoginLimit.Limit,
			Window: cfg.Auth.LoginLimit.Window,
		})
		if err != nil {
			return nil, fmt.Errorf("build login limiter: %w", err)
		}
		return limiter, nil
	}

	logger.Info("redis not configured, using in-process login limiter")
	limiter, err := localratelimit.New(localratelimit.Options{
		Limit:  cfg.Auth.LoginLimit.Limit,
		Window: cfg.Auth.LoginLimit.Window,
	})
	if err != nil {
		return nil, fmt.Errorf("build login limiter: %w", err)
	}
	return limiter, nil
}
