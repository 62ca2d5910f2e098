// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Adham-Aroubite/hr-back/internal/auth"
	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/database"
)

// MyServer holds what every route handler needs
type MyServer struct {
	Config config.Config
	DB     *database.DBinstanceStruct
	Auth   *auth.Authenticator
}

// NewMyServer wires the session store selected by the configuration into an Authenticator
func NewMyServer(cfg config.Config, db *database.DBinstanceStruct) *MyServer {
	var sessions auth.SessionStore
	switch cfg.Auth.SessionStore {
	case config.SessionStoreMemory:
		sessions = auth.NewInMemorySessionStore(cfg.Auth.TokenTTL)
	default:
		sessions = auth.NewGormSessionStore(db.DB, cfg.Auth.TokenTTL)
	}

	return &MyServer{
		Config: cfg,
		DB:     db,
		Auth:   auth.NewAuthenticator(db, sessions, auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.Issuer)),
	}
}

// NewServer construct new http.Server serving every route on the configured port
func NewServer(cfg config.Config, db *database.DBinstanceStruct) *http.Server {
	s := NewMyServer(cfg, db)

	if cfg.Logging {
		auth.EnableAuthLog("log")
	}

	// Declare Server config
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
