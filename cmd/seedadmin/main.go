// cmd/seedadmin/main.go creates or resets a back-office account.
// Usage: go run ./cmd/seedadmin -username admin -password secret123
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"boutique/internal/config"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "admin", "login")
	password := flag.String("password", "", "password (8 characters minimum)")
	nom := flag.String("nom", "Administrateur", "display name")
	role := flag.String("role", "admin", "admin | manager")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}
	if *role != "admin" && *role != "manager" {
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO admins (id, username, nom, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nom = EXCLUDED.nom,
		    role = EXCLUDED.role,
		    active = true,
		    updated_at = NOW()
	`, uuid.New(), *username, *nom, string(hash), *role)

	if result.Error != nil {
		log.Fatalf("insert error: %v", result.Error)
	}
	fmt.Printf("admin '%s' created/updated with role %s\n", *username, *role)
}
