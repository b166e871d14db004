package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"safaribook/internal/config"
	"safaribook/internal/database"
	"safaribook/internal/pkg/logger"
	"safaribook/internal/repository"
)

func main() {
	revoke := flag.Bool("revoke", false, "remove the admin flag instead of setting it")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	email := flag.Arg(0)
	if email == "" {
		email = os.Getenv("ADMIN_USER_EMAIL")
	}
	if email == "" {
		log.Fatal("usage: make-admin [-revoke] <email>")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL, database.DefaultRetryPolicy(), log)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	defer db.Close()

	user, err := repository.NewUserRepository(db).SetAdmin(ctx, email, !*revoke)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.WithField("email", email).Fatal("no user with that email")
		}
		log.WithError(err).Fatal("update failed")
	}

	log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	}).Info("admin flag updated")
}
