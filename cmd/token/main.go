package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"foodtruck-ordering/internal/config"
	"foodtruck-ordering/internal/domain"
	actorsvc "foodtruck-ordering/internal/service/actor"
)

// token mints bearer tokens for local testing against JWT_SECRET.
func main() {
	var (
		id   string
		name string
		role string
		ttl  time.Duration
	)
	flag.StringVar(&id, "id", "", "Subject id (customer or staff id)")
	flag.StringVar(&name, "name", "", "Display name")
	flag.StringVar(&role, "role", "customer", "customer, staff or admin")
	flag.DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	flag.Parse()

	if id == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	svc := actorsvc.New(cfg.JWTSecret)
	tok, err := svc.Issue(domain.Actor{ID: id, Name: name, Role: domain.ParseRole(role)}, ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(tok)
}
