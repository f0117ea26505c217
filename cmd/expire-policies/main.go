// expire-policies marks active policies whose end date has passed as expired.
// Meant for a daily scheduler job; the API itself never expires policies.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/expire-policies [-as-of 2024-12-31]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"bitbucket.org/mmdatafocus/insurance_backend/models"
	"github.com/sirupsen/logrus"
)

func main() {
	asOfFlag := flag.String("as-of", "", "expire policies that ended before this date (YYYY-MM-DD); default today (UTC)")
	flag.Parse()

	now := time.Now().UTC()
	asOf := models.NewDate(now.Year(), now.Month(), now.Day())
	if *asOfFlag != "" {
		d, err := models.ParseDate(*asOfFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		asOf = d
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	affected, err := models.ExpirePolicies(ctx, asOf)
	if err != nil {
		config.LogError(config.GetLogger(), "expire-policies", "main", "ExpirePolicies", asOf.String(), err)
		os.Exit(1)
	}
	config.GetLogger().WithFields(logrus.Fields{
		"asOf":    asOf.String(),
		"expired": affected,
	}).Info("policies expired")
	fmt.Printf("Expired %d policies (as of %s)\n", affected, asOf)
}
