package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"abend-assist-be/internal/config"
	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// usersCmd seeds the security directory used by the password-reset flow.
var usersCmd = &cobra.Command{
	Use:   "users <file.csv>",
	Short: "Seed security users from a user_id,password CSV",
	Long: `Each row is user_id,password. Passwords are stored as bcrypt hashes.
Existing user ids are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsers,
}

func runUsers(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	repo := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(cmd.Context()).SecurityUserRepository()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	var created, skipped int
	for line := 1; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < 2 || strings.EqualFold(row[0], "user_id") {
			continue
		}

		userId := strings.ToUpper(strings.TrimSpace(row[0]))
		count, err := repo.Count(cmd.Context(), specification.ByUserId{UserId: userId})
		if err != nil {
			return err
		}
		if count > 0 {
			color.Yellow("  skip %s (exists)", userId)
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(row[1]), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if err := repo.Create(cmd.Context(), &entity.SecurityUser{UserId: userId, PasswordHash: string(hash)}); err != nil {
			return fmt.Errorf("create %s: %w", userId, err)
		}
		created++
	}

	color.Green("Created %d security users, skipped %d", created, skipped)
	return nil
}
