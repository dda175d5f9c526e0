package main

import (
	"net/http"
	"os"
	"time"

	"pet-care-platform/internal/adapters/auth/accountsvc"
	"pet-care-platform/internal/adapters/auth/jwtlocal"
	"pet-care-platform/internal/platform/logger"
	"pet-care-platform/internal/ports/auth"
	"pet-care-platform/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{AuthVerifier: buildVerifier(log)})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}

// buildVerifier elige el verifier según env:
// - AUTH_JWT_SECRET => validación local HS256
// - ACCOUNTS_BASE_URL => verificación remota contra el servicio de cuentas
// - nada => nil (modo dev, X-Debug-User-ID)
func buildVerifier(log logger.Logger) auth.AuthVerifier {
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		v, err := jwtlocal.NewVerifier(secret, os.Getenv("AUTH_JWT_ISSUER"))
		if err != nil {
			log.Error("jwt verifier config", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		log.Info("auth mode", map[string]any{"mode": "jwt-local"})
		return v
	}

	if base := os.Getenv("ACCOUNTS_BASE_URL"); base != "" {
		c, err := accountsvc.NewClient(accountsvc.Config{
			BaseURL: base,
			APIKey:  os.Getenv("ACCOUNTS_API_KEY"),
		})
		if err != nil {
			log.Error("accounts client config", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		log.Info("auth mode", map[string]any{"mode": "accounts"})
		return accountsvc.NewVerifier(c)
	}

	log.Warn("auth mode", map[string]any{"mode": "dev"})
	return nil
}
