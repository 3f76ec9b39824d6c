package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"family-registry/internal/repositories"
	"family-registry/pkg/config"
	"family-registry/pkg/database/postgresql"
	applogger "family-registry/pkg/logger"
	"family-registry/pkg/utils"
	"family-registry/seeders"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed",
		Short:         "Обслуживание базы реестра семей: миграции и первый администратор",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newAdminCmd(), newHashPasswordCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции goose",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()
			logger := applogger.NewLogger(cfg.Log)
			defer func() { _ = logger.Sync() }()

			db, err := postgresql.OpenSQL(cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgresql.Migrate(db); err != nil {
				logger.Error("миграции не применены", zap.Error(err))
				return err
			}
			logger.Info("миграции применены")
			return nil
		},
	}
}

func newAdminCmd() *cobra.Command {
	var params seeders.AdminParams

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Создать администратора или сбросить ему пароль",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if params.IIN == "" {
				params.IIN = os.Getenv("ADMIN_IIN")
			}
			if params.Password == "" {
				params.Password = os.Getenv("ADMIN_PASSWORD")
			}
			if params.IIN == "" || params.Password == "" {
				return errors.New("нужны --iin и --password (или ADMIN_IIN и ADMIN_PASSWORD)")
			}

			cfg := config.New()
			logger := applogger.NewLogger(cfg.Log)
			defer func() { _ = logger.Sync() }()

			ctx := context.Background()
			pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := repositories.NewUserRepository(pool, logger)
			created, err := seeders.SeedAdmin(ctx, repo, params, logger)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), "администратор создан")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "администратор обновлён")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&params.IIN, "iin", "", "ИИН администратора (12 цифр)")
	cmd.Flags().StringVar(&params.Password, "password", "", "пароль администратора")
	cmd.Flags().StringVar(&params.FullName, "name", "", "ФИО администратора")
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Вывести bcrypt-хеш пароля",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
