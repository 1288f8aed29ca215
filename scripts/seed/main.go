package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/pkg/config"
	"github.com/shiftops/roster-api/pkg/database"
)

// Seeds a local database with an admin account and a small shift-eligible
// roster so the API can be exercised end to end.
func main() {
	var (
		adminEmail    string
		adminPassword string
		staffCount    int
	)

	flag.StringVar(&adminEmail, "admin-email", "admin@example.com", "Admin account email")
	flag.StringVar(&adminPassword, "admin-password", "changeme-now", "Admin account password")
	flag.IntVar(&staffCount, "staff", 5, "Number of shift-eligible staff accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	const insert = `INSERT INTO persons (id, email, password_hash, full_name, role, capabilities, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $7)
		ON CONFLICT (email) DO NOTHING`

	now := time.Now().UTC()

	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if _, err := db.Exec(insert, uuid.NewString(), adminEmail, string(adminHash), "Roster Admin",
		string(models.RoleAdmin), pq.Array([]string{}), now); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	log.Printf("seeded admin %s", adminEmail)

	positions := []string{"BARISTA", "COOK", "SERVER", "HOST", "RUNNER"}
	for i := 0; i < staffCount; i++ {
		email := fmt.Sprintf("staff%d@example.com", i+1)
		hash, err := bcrypt.GenerateFromPassword([]byte(fmt.Sprintf("staff-pass-%d", i+1)), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash staff password: %v", err)
		}
		capabilities := []string{models.CapabilityShiftEligible, positions[i%len(positions)]}
		if _, err := db.Exec(insert, uuid.NewString(), email, string(hash), fmt.Sprintf("Staff Member %d", i+1),
			string(models.RoleStaff), pq.Array(capabilities), now); err != nil {
			log.Fatalf("failed to seed staff %s: %v", email, err)
		}
		log.Printf("seeded staff %s (%s)", email, capabilities[1])
	}
}
