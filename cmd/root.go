package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cart "github.com/Alturino/checkout/cart/cmd"
	"github.com/Alturino/checkout/internal/config"
	"github.com/Alturino/checkout/internal/constants"
	"github.com/Alturino/checkout/internal/infra"
	"github.com/Alturino/checkout/internal/log"
	notification "github.com/Alturino/checkout/notification/cmd"
	order "github.com/Alturino/checkout/order/cmd"
)

func Start() {
	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.APP_MAIN_CHECKOUT)).
		With().
		Str(log.KeyAppName, constants.APP_MAIN_CHECKOUT).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.APP_MAIN_CHECKOUT}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cart.RunCartService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "order",
			Short: "Run order service",
			Run: func(cmd *cobra.Command, args []string) {
				order.RunOrderService(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "notification",
			Short: "Run notification service",
			Run: func(cmd *cobra.Command, args []string) {
				notification.RunNotificationService(cmd.Context())
			},
		},
		newMigrateCommand(),
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

func newMigrateCommand() *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			logger := zerolog.Ctx(c).
				With().
				Str(log.KeyAppName, constants.APP_MIGRATE).
				Str(log.KeyTag, "main Migrate").
				Str("direction", direction).
				Logger()
			c = logger.WithContext(c)
			cfg := config.InitConfig(c, constants.APP_MIGRATE)

			logger.Info().Msg("migrating database")
			if err := infra.Migrate(c, cfg.Database, direction); err != nil {
				return err
			}
			logger.Info().Msg("migrated database")
			return nil
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", infra.MigrateUp, "migration direction, up or down")
	return cmd
}
