// Command admintoken mints a bearer token for the admin panel, or a fresh
// signing secret with -new-secret.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"cryptoupi/internal/authz"
	"cryptoupi/internal/config"
	"cryptoupi/internal/utils"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config")
	subject := flag.String("subject", "", "who the token is for")
	role := flag.String("role", authz.RoleAdmin, "admin or auditor")
	newSecret := flag.Bool("new-secret", false, "print a random JWT secret and exit")
	flag.Parse()

	if *newSecret {
		secret, err := utils.NewSigningSecret(utils.MinSecretBytes)
		if err != nil {
			log.Fatalf("admintoken: %v", err)
		}
		fmt.Println(secret)
		return
	}

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "usage: admintoken -subject <name> [-role admin|auditor] [-config path]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("admintoken: %v", err)
	}

	token, err := authz.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer).IssueAdmin(*subject, *role, cfg.Auth.AdminTokenTTL)
	if err != nil {
		log.Fatalf("admintoken: %v", err)
	}
	fmt.Println(token)
}
