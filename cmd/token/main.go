package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/config"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/jwt"
)

// Issues an access token signed with JWT_SECRET_KEY for calling the API locally.
func main() {
	userID := flag.String("user", "", "user id placed in the user_id claim")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", string(user.RoleEmployee), "admin or employee")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}
	if r := user.Role(*role); r != user.RoleAdmin && r != user.RoleEmployee {
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*userID, *email, user.Role(*role))
	if err != nil {
		log.Fatal("Error generating token: ", err)
	}

	fmt.Println(token)
	log.Printf("expires at %s", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
