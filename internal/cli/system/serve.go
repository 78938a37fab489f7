package system

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/studyplan/internal/cli"
	"github.com/julianstephens/studyplan/internal/constants"
	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/server"
)

type ServeCmd struct {
	Addr      string   `help:"Address to listen on." default:":8080" env:"STUDYPLAN_ADDR"`
	AI        bool     `help:"Answer with the OpenAI planner first, falling back to the local scheduler."`
	Origins   []string `help:"Allowed CORS origins." default:"*"`
	JWTSecret string   `name:"jwt-secret" help:"HS256 secret for bearer auth; auth is disabled when empty and none is in the keyring." env:"STUDYPLAN_JWT_SECRET"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	planner, err := ctx.Planner(settings, c.AI)
	if err != nil {
		return err
	}

	secret := keyring.Lookup(constants.KeyringJWTSecret, c.JWTSecret)
	srv := server.New(server.Config{
		Addr:           c.Addr,
		JWTSecret:      []byte(secret),
		AllowedOrigins: c.Origins,
	}, planner)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth := "off"
	if secret != "" {
		auth = "on"
	}
	fmt.Fprintf(ctx.Stdout(), "Serving on %s (auth %s)\n", c.Addr, auth)
	return srv.ListenAndServe(sigCtx)
}

// TokenCmd mints a bearer token for the HTTP API.
type TokenCmd struct {
	Subject   string        `arg:"" help:"Token subject, e.g. a user or client name."`
	TTL       time.Duration `help:"How long the token stays valid." default:"720h"`
	JWTSecret string        `name:"jwt-secret" help:"HS256 secret; defaults to the keyring entry." env:"STUDYPLAN_JWT_SECRET"`
}

func (c *TokenCmd) Run(ctx *cli.Context) error {
	secret := keyring.Lookup(constants.KeyringJWTSecret, c.JWTSecret)
	if secret == "" {
		return errors.New("no JWT secret configured; set STUDYPLAN_JWT_SECRET or run 'studyplan keyring set jwt-secret <secret>'")
	}
	token, err := server.GenerateToken([]byte(secret), c.Subject, c.TTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout(), token)
	return nil
}
