package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/helaidi0704/pharmaconnect-frontend/internal/api"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/config"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/session"
	"github.com/helaidi0704/pharmaconnect-frontend/internal/telemetry"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

type app struct {
	cfg    config.Config
	client *api.Client
	gate   *session.Gate
}

func main() {
	log.SetFlags(0)
	cfg := config.Load()

	shutdownTelemetry := telemetry.Setup("pharmaconnect", version)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(ctx)
	}()

	store, err := session.NewStore(cfg.SessionPath)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	client := api.NewClient(cfg.APIBaseURL, api.Options{Timeout: cfg.HTTPTimeout})
	gate := session.NewGate(client, store)
	gate.Resume()

	a := &app{cfg: cfg, client: client, gate: gate}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "login":
		err = a.login(ctx, args)
	case "logout":
		err = a.logout(ctx)
	case "register":
		err = a.register(ctx, args)
	case "me":
		err = a.me(ctx)
	case "profile":
		err = a.profile(ctx, args)
	case "claims":
		err = a.claims(ctx, args)
	case "stock":
		err = a.stock(ctx, args)
	case "products":
		err = a.products(ctx, args)
	case "partners":
		err = a.partners(ctx, args)
	case "files":
		err = a.files(ctx, args)
	case "chat":
		err = a.chat(ctx, args)
	case "assist":
		err = a.assist(ctx, args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%s: %s (%v)", command, api.UserMessage(err), err)
	}
}

// requireAuth is the route guard: protected commands run only while the gate
// is authenticated.
func (a *app) requireAuth() error {
	if !a.gate.Authenticated() {
		return fmt.Errorf("not logged in, run `pharmaconnect login` first")
	}
	return nil
}

func usage() {
	fmt.Fprint(os.Stderr, `pharmaconnect - claims management client

Usage:
  pharmaconnect <command> [arguments]

Commands:
  login       -email -password
  logout
  register    -role -email -password [-company -first-name -last-name -phone -address]
  me
  profile     update|change-password
  claims      list|show|create|update|set-status|delete|stats
  stock       list|alerts|stats|create|update|delete
  products    list|show
  partners    list|available|add|remove
  files       upload|list|delete
  chat        <claim-id>
  assist      [question]

Environment:
  PHARMACONNECT_API_URL        backend base URL
  PHARMACONNECT_REALTIME_URL   realtime channel URL
  PHARMACONNECT_SESSION_PATH   session file location
`)
}
