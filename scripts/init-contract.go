// Command init-contract initializes the marketplace contract singleton.
// It is a one-shot bootstrap tool; a second run against an initialized
// store fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/simmr/simmr/internal/service"
	"github.com/simmr/simmr/internal/store"
)

type output struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "admin@simmr.local", "Contract admin email")
		password    = flag.String("password", os.Getenv("CONTRACT_PASSWORD"), "Contract admin password")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required (flag or CONTRACT_PASSWORD)")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := store.NewPostgres(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer pg.Close()

	market := service.NewMarket(pg, nil, nil, nil)
	if err := market.InitContract(ctx, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "init contract:", err)
		os.Exit(1)
	}

	out := output{Email: *email, Status: "initialized"}

	switch strings.ToLower(*format) {
	case "json":
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "encode output:", err)
			os.Exit(1)
		}
		fmt.Println(string(encoded))
	default:
		fmt.Printf("contract initialized for %s\n", out.Email)
	}
}
