// Package command holds the CLI of the reservation server.  The root
// command starts the HTTP API; sub-commands run the booking event
// consumer and database maintenance.
//
//	./server [serve] [--env .env]   # start the HTTP API
//	./server consume                # append booking events to logs/booking.log
//	./server db migrate             # create tables
//	./server db seed                # insert demo locations and restaurants
package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/logger"
)

const serviceName = "table-reservation"

var envPath string

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Restaurant table reservation API",
	Long: `Restaurant table reservation API.
Customers browse locations, restaurants, menus and free tables, book a
table for a date and time, cancel their bookings and leave reviews.
Restaurant staff manage tables, offers and the bookings of their
restaurant.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
	RunE:              serve,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "dotenv file to load before reading the environment")
}

// loadEnv loads the dotenv file when it exists.  Variables already set in
// the process environment win.
func loadEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envPath, err)
	}
	logger.Init(serviceName, os.Getenv("LOG_LEVEL"))
	return nil
}
