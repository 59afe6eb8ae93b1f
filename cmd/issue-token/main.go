// Команда issue-token находит или создаёт пользователя по e-mail и печатает
// подписанный токен доступа к API. Заменяет вход через внешнего провайдера
// в локальной разработке.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/logger"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

type userEnsurer interface {
	EnsureUser(ctx context.Context, identity models.Identity) (*models.User, error)
}

type tokenGenerator interface {
	GenerateToken(userID, email string) (string, error)
}

func issueToken(ctx context.Context, users userEnsurer, tokens tokenGenerator, identity models.Identity, out io.Writer) error {
	user, err := users.EnsureUser(ctx, identity)
	if err != nil {
		return err
	}
	token, err := tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "user:  %s (%s, %s)\ntoken: %s\n", user.ID, user.Email, user.Role, token)
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func rootCmd() *cobra.Command {
	var (
		cfgPath string
		email   string
		name    string
		avatar  string
	)

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Issue an API token for a user",
		Long:  `Finds the user by e-mail, creating one with role USER if needed, and prints a signed access token.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				return errors.New("config path is required: use --config or CONFIG_PATH")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Env, os.Stderr)

			db, err := repository.New(cmd.Context(), cfg.StorageConnectionString)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			identity := models.Identity{Email: email, Name: optional(name), Avatar: optional(avatar)}
			return issueToken(cmd.Context(), userservice.New(db, log), jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), identity, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	cmd.Flags().StringVar(&email, "email", "", "user e-mail")
	cmd.Flags().StringVar(&name, "name", "", "display name for a new user")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL for a new user")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
