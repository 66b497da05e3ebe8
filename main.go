package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"content-site/pkg/config"
	"content-site/pkg/handlers"
	"content-site/pkg/logging"
	"content-site/pkg/services"
	"content-site/pkg/views"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "site",
	Short: "Serve and maintain the article site",
	Long: `site serves the public articles, the form endpoints and the editor dashboard
from a directory of markdown files.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content directory for problems",
	Long: `Loads every article and reports files that fail to parse, duplicate slugs,
missing alt text, unknown categories and authors.

With --probe, remote hero images are requested and any that fail to load are
reported, since readers would see the fallback image instead.`,
	RunE: runValidate,
}

var newCmd = &cobra.Command{
	Use:   "new <category> <slug>",
	Short: "Scaffold a draft article",
	Args:  cobra.ExactArgs(2),
	RunE:  runNew,
}

var (
	probeImages  bool
	probeTimeout time.Duration
	newTitle     string
	newFormat    string
)

func init() {
	validateCmd.Flags().BoolVar(&probeImages, "probe", false, "request remote hero images")
	validateCmd.Flags().DurationVar(&probeTimeout, "timeout", 5*time.Second, "per-image probe timeout")
	newCmd.Flags().StringVar(&newTitle, "title", "", "article title (defaults to the slug in title case)")
	newCmd.Flags().StringVar(&newFormat, "format", "yaml", "front matter format: yaml, toml or json")

	rootCmd.AddCommand(serveCmd, validateCmd, newCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, the logger and the article registry shared by all commands.
func setup() (*zap.Logger, *services.Registry, error) {
	config.Init()

	logger, err := logging.New(config.LogLevel, config.LogFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	site, err := services.LoadSiteConfig(config.SiteConfigPath)
	if err != nil {
		return nil, nil, err
	}

	reg := services.NewRegistry(config.ContentPath, site, services.RegistryOptions{
		Concurrency:      config.CacheConcurrency,
		ShowDrafts:       config.ShowDrafts,
		ReferencePreview: config.ReferencePreviewCount,
	}, logger)
	return logger, reg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, reg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := checkSessionSecret(logger); err != nil {
		return err
	}

	ctx := cmd.Context()

	store, err := services.OpenStore(ctx, config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// warm the registry so content problems show up at startup
	if _, err := reg.List(ctx, ""); err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	var repo *services.ContentRepo
	if config.GitSync {
		repo = services.NewContentRepo(config.ContentPath, config.GitRemote, config.GitBranch)
	}

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(&handlers.Handler{
		Registry: reg,
		Store:    store,
		Media:    services.NewMediaLibrary(config.MediaPath, "/static/"+filepath.Base(config.MediaPath)),
		Repo:     repo,
		Logger:   logger,
		BaseURL:  config.AppURL,
		OAuth:    config.OauthConf,
	}, renderer, handlers.RouterOptions{
		SessionName:   config.SessionName,
		SessionSecret: config.SessionSecret,
		StaticPath:    config.StaticPath,
	})

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("url", config.AppURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-shutdownCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}

// checkSessionSecret refuses to serve production with the development cookie key and
// warns about it everywhere else.
func checkSessionSecret(logger *zap.Logger) error {
	err := config.CheckSessionSecret()
	if err == nil {
		return nil
	}
	if config.IsProduction() {
		return err
	}
	logger.Warn("insecure session secret", zap.Error(err))
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	logger, reg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var prober *services.ImageProber
	if probeImages {
		prober = services.NewImageProber(probeTimeout, config.CacheConcurrency)
	}

	issues, err := services.Validate(cmd.Context(), reg, prober)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, i := range issues {
		where := i.Path
		if where == "" {
			where = i.Slug
		}
		fmt.Fprintf(out, "%-7s %s: %s\n", i.Level, where, i.Message)
	}
	fmt.Fprintf(out, "%d issue(s)\n", len(issues))

	if services.HasErrors(issues) {
		return errors.New("content has errors")
	}
	return nil
}

func runNew(cmd *cobra.Command, args []string) error {
	config.Init()

	category, err := services.NormalizeSlug(args[0])
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}
	slug, err := services.NormalizeSlug(args[1])
	if err != nil {
		return fmt.Errorf("slug: %w", err)
	}

	content, err := services.NewArticleContent(category, slug, newTitle, newFormat, time.Now())
	if err != nil {
		return err
	}

	path := services.SafeJoin(config.ContentPath, category, slug+".md")
	if path == "" {
		return errors.New("invalid article path")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "created", path)
	return nil
}
