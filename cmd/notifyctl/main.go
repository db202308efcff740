// Command notifyctl is the notification ops CLI.
//
// Usage:
//
//	notifyctl purge
//	notifyctl custom --user 8f14... --title "Maintenance tonight" --message "The server restarts at 02:00"
//	notifyctl unread --user 8f14...
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finchmedia/notifier/internal/config"
	"github.com/finchmedia/notifier/internal/db"
	"github.com/finchmedia/notifier/internal/notifications"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "notifyctl",
		Short: "Media notification ops CLI",
	}

	root.AddCommand(purgeCmd())
	root.AddCommand(customCmd())
	root.AddCommand(unreadCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// purge command
// --------------------------------------------------------------------------

func purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired notifications now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(func(ctx context.Context, cfg *config.Config, store *notifications.Store) error {
				start := time.Now()
				count, err := store.PurgeExpired(ctx)
				if err != nil {
					return err
				}
				logger.Info("Purge complete",
					"deleted", count, "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// custom command
// --------------------------------------------------------------------------

func customCmd() *cobra.Command {
	var (
		user    string
		title   string
		message string
	)
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Create a custom notification for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			return runWithStore(func(ctx context.Context, cfg *config.Config, store *notifications.Store) error {
				now := time.Now().UTC()
				n := &notifications.Notification{
					ID:        uuid.New(),
					UserID:    userID,
					Type:      notifications.TypeCustom,
					Title:     title,
					Message:   message,
					CreatedAt: now,
					ExpiresAt: now.Add(notifications.Retention(cfg.RetentionDays)),
				}
				if err := store.Create(ctx, n); err != nil {
					return err
				}
				logger.Info("Custom notification created",
					"notification_id", n.ID, "user_id", userID, "title", title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Recipient user ID (UUID)")
	cmd.Flags().StringVar(&title, "title", "", "Notification title")
	cmd.Flags().StringVar(&message, "message", "", "Notification message")
	return cmd
}

// --------------------------------------------------------------------------
// unread command
// --------------------------------------------------------------------------

func unreadCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Print a user's unread notification count",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("--user must be a UUID: %w", err)
			}
			return runWithStore(func(ctx context.Context, cfg *config.Config, store *notifications.Store) error {
				count, err := store.CountUnread(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Println(count)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User ID (UUID)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runWithStore handles config loading, DB connection, and context
// cancellation.
func runWithStore(fn func(ctx context.Context, cfg *config.Config, store *notifications.Store) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, notifications.NewStore(pool.Pool, logger))
}
