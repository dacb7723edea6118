// Command admin provisions the site administrator and prints a content summary.
//
//	admin create -u <username>   password from ADMIN_PASSWORD or an interactive prompt
//	admin check
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tazhibayda/family-gallery/internal/config"
	"github.com/tazhibayda/family-gallery/internal/repo"
	"github.com/tazhibayda/family-gallery/internal/service"
	"golang.org/x/term"
)

var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "create":
		err = create(ctx, cfg, os.Args[2:])
	case "check":
		err = check(ctx, cfg, os.Stdout)
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin create -u <username> | admin check")
}

func create(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	username := fs.String("u", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" {
		return errors.New("-u is required")
	}
	password, err := readAdminPassword()
	if err != nil {
		return err
	}

	store, err := repo.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	u, created, err := service.NewAdminService(store).Provision(ctx, *username, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("created admin %s (%s)\n", u.Username, u.ID.Hex())
	} else {
		fmt.Printf("updated password for admin %s\n", u.Username)
	}
	return nil
}

func readAdminPassword() (string, error) {
	if p := os.Getenv("ADMIN_PASSWORD"); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errors.New("ADMIN_PASSWORD is not set and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func check(ctx context.Context, cfg config.Config, w io.Writer) error {
	store, err := repo.NewStore(ctx, cfg.Mongo.URI, cfg.Mongo.DB)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	galleries, err := store.ListGalleries(ctx, true)
	if err != nil {
		return err
	}
	users, err := store.ListFamilyUsers(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "GALLERIES (%d)\n", len(galleries))
	for _, g := range galleries {
		vis := "public"
		if g.IsFamilyOnly {
			vis = "family"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d-%02d\t%s\n", g.ID.Hex(), g.Name, g.Year, g.Month, vis)
	}
	fmt.Fprintf(tw, "\nFAMILY USERS (%d)\n", len(users))
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID.Hex(), u.Email, u.Name, u.Status)
	}
	return tw.Flush()
}
