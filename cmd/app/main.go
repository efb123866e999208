package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/auth"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/mailservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	tokens      *auth.Issuer
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
	limiters    *common.Cache
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("could not load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DatabaseURL, 25, 25, 15*time.Minute)
	if err != nil {
		logger.Error("could not connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("database connection pool established")

	if cfg.Migrate {
		if err := common.MigrateUp("file://migrations", cfg.DatabaseURL); err != nil {
			logger.Error("could not run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		tokens:   auth.NewIssuer(cfg.Secret, cfg.TokenTTL),
		limiters: common.NewCache(3*time.Minute, time.Minute),
	}

	var producer common.MessageProducer = common.NoopProducer{}

	if cfg.RabbitMQ.URL != "" {
		broker, err := common.NewMessageBroker(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Error("could not connect to message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := common.SetupBlogExchange(broker); err != nil {
			logger.Error("could not set up blog exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		producer = broker

		if cfg.Mail.Host != "" && cfg.Mail.Recipient != "" {
			app.mailService = mailservice.NewMailService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Recipient, cfg.Mail.Port, logger)
			app.mailService.SendBlogNotifications()
		}
	}

	app.userService = userservice.NewUserService(db, app.tokens, cfg.PasswordMinLength)
	app.blogService = blogservice.NewBlogService(db, producer, logger)

	err = app.serve(cfg.Port)

	app.shutdown()

	if err := common.CloseDB(db); err != nil {
		logger.Error("could not close database", slog.String("error", err.Error()))
	}

	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// shutdown stops the notification consumer before the broker connection it reads from.
func (app *application) shutdown() {
	if app.mailService != nil {
		app.mailService.Close()
	}

	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Error("could not close message broker", slog.String("error", err.Error()))
		}
	}
}
