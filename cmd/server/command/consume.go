package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/queue"
)

var logPath string

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append booking events from RabbitMQ to a log file",
	RunE: func(_ *cobra.Command, _ []string) error {
		url := os.Getenv("RABBITMQ_URL")
		if url == "" {
			return errors.New("missing required env var: RABBITMQ_URL")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c := queue.NewConsumer(url)
		if logPath != "" {
			c.LogPath = logPath
		}
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consumer: %w", err)
		}
		return nil
	},
}

func init() {
	consumeCmd.Flags().StringVar(&logPath, "log", "", "event log file (default logs/booking.log)")
	rootCmd.AddCommand(consumeCmd)
}
