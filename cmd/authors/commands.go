package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MarcoPoloResearchLab/authors/internal/authors"
	"github.com/MarcoPoloResearchLab/authors/internal/config"
	"github.com/MarcoPoloResearchLab/authors/internal/credentials"
	"github.com/MarcoPoloResearchLab/authors/internal/database"
	"github.com/MarcoPoloResearchLab/authors/internal/identifier"
	"github.com/MarcoPoloResearchLab/authors/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// withService builds the author service from configuration, runs fn, and releases the database.
func withService(fn func(*authors.Service) error) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel, appConfig.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	hasher, err := credentials.NewHasher(appConfig.Password)
	if err != nil {
		return err
	}

	service, err := authors.NewService(authors.ServiceConfig{
		Database:        db,
		IDProvider:      identifier.NewV7Provider(),
		PasswordHasher:  hasher,
		ActivationToken: credentials.NewActivationToken,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	return fn(service)
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func newCreateCommand() *cobra.Command {
	var registration authors.Registration
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(service *authors.Service) error {
				author, err := service.Register(cmd.Context(), registration)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), author)
			})
		},
	}
	cmd.Flags().StringVar(&registration.AvatarURL, "avatar-url", "", "Avatar URL")
	cmd.Flags().StringVar(&registration.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&registration.Password, "password", "", "Plaintext password, stored as an argon2id hash")
	cmd.Flags().StringVar(&registration.Username, "username", "", "Username")
	for _, name := range []string{"avatar-url", "email", "password", "username"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(service *authors.Service) error {
				author, found, err := service.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w: %s", authors.ErrNotFound, args[0])
				}
				return writeJSON(cmd.OutOrStdout(), author)
			})
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(service *authors.Service) error {
				found, err := service.List(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), found)
			})
		},
	}
}

func newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes := authors.Changes{
				AvatarURL:       changedFlag(cmd, "avatar-url"),
				ActivationToken: changedFlag(cmd, "activation-token"),
				Email:           changedFlag(cmd, "email"),
				Password:        changedFlag(cmd, "password"),
				Username:        changedFlag(cmd, "username"),
			}
			if changes == (authors.Changes{}) {
				return errors.New("no changes requested")
			}
			return withService(func(service *authors.Service) error {
				author, err := service.Change(cmd.Context(), args[0], changes)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), author)
			})
		},
	}
	cmd.Flags().String("avatar-url", "", "New avatar URL")
	cmd.Flags().String("activation-token", "", "New activation token")
	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("password", "", "New plaintext password")
	cmd.Flags().String("username", "", "New username")
	return cmd
}

// changedFlag returns the flag value only when the caller set it.
func changedFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &value
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(service *authors.Service) error {
				return service.Remove(cmd.Context(), args[0])
			})
		},
	}
}
