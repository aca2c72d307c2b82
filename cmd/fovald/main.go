// Command fovald serves a standalone validation endpoint for the browser
// client collector. The form wired here mirrors the contact-style form the
// client ships with; real deployments supply their own FormFactory.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saikojosh/Foval"
	"github.com/saikojosh/Foval/handler"
	"github.com/saikojosh/Foval/pkg/config"
	"github.com/saikojosh/Foval/pkg/httpserver"
	"github.com/saikojosh/Foval/pkg/logger"
)

type serverConfig struct {
	Addr            string        `env:"FOVALD_ADDR" envDefault:":8080"`
	LogFormat       string        `env:"FOVALD_LOG_FORMAT" envDefault:"json"`
	LogDebug        bool          `env:"FOVALD_LOG_DEBUG" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"FOVALD_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	ClientVersion   string        `env:"FOVALD_CLIENT_VERSION"`
}

func main() {
	var cfg serverConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogDebug {
		level = slog.LevelDebug
	}
	log := logger.New(
		logger.WithFormat(logger.Format(cfg.LogFormat)),
		logger.WithLevel(level),
		logger.WithAttr(slog.String("service", "fovald")),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes(contactForm(cfg.ClientVersion), handler.WithLogger(log)))

	srv := httpserver.New(
		httpserver.WithAddr(cfg.Addr),
		httpserver.WithTimeouts(10*time.Second, 10*time.Second, time.Minute),
		httpserver.WithShutdownTimeout(cfg.ShutdownTimeout),
		httpserver.WithLogger(log),
	)
	if err := srv.Run(context.Background(), router); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// contactForm defines the demo form served out of the box.
func contactForm(clientVersion string) handler.FormFactory {
	return func(values foval.Values) (*foval.Form, error) {
		var opts []foval.Option
		if clientVersion != "" {
			opts = append(opts, foval.WithClientVersion(clientVersion))
		}
		form := foval.New(values, opts...)

		fields := []foval.FieldConfig{
			{Name: "name", Type: "str", Required: true, Trim: true},
			{Name: "email", Type: "email", Required: true},
			{Name: "website", Type: "url"},
			{Name: "phone", Type: "tel"},
			{Name: "age", Type: "int", Validations: foval.Steps{
				foval.Step("numeric", map[string]any{"min": 18, "max": 120}),
			}},
			{Name: "interests", Type: "hash", Validations: foval.Steps{
				foval.Step("hash", map[string]any{"minSelections": 1}),
			}},
			{Name: "password", Type: "password", Required: true, Validations: foval.Steps{
				foval.Step("password", map[string]any{"minScore": 3}),
			}},
			{Name: "subscribe", Type: "checkbox"},
		}
		for _, field := range fields {
			if err := form.AddField(field); err != nil {
				return nil, err
			}
		}
		return form, nil
	}
}
