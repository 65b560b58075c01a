package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gensquad/talentbase/internal/github"
	"github.com/gensquad/talentbase/internal/server"
	"github.com/gensquad/talentbase/internal/server/blob"
	"github.com/gensquad/talentbase/internal/server/workflow"
	"github.com/gensquad/talentbase/internal/utils"
	"github.com/gensquad/talentbase/internal/version"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "TALENTBASE"
	configFileName = "talentbase"
)

var rootCmd = &cobra.Command{
	Use:     "server",
	Short:   "GenSquad talent and workflow API",
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		cmd.SilenceUsage = true

		closeLog, err := setupLogger(cfg.LogFile())
		if err != nil {
			return err
		}
		defer closeLog()

		srv, err := server.New(cfg)
		if err != nil {
			slog.Error("server init", "error", err)
			return err
		}

		defer slog.Info("Bye!")
		if err := srv.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("server", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	addFlags(rootCmd)
}

func addFlags(cmd *cobra.Command) {
	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("bind", "b", server.DefaultAddr, "Address to bind the server")
	cmd.Flags().StringP("db", "d", server.DefaultDBPath, "Path to the sqlite database")
	cmd.Flags().String("cert", "", "Path to the TLS certificate file")
	cmd.Flags().String("key", "", "Path to the TLS key file")
	cmd.Flags().StringP("config", "f", "", "Path to a yaml or json config file")
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(newConsoleHandler()))

	// Setup root context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newConsoleHandler() slog.Handler {
	return tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
}

// setupLogger adds a plain text file sink next to the console when logFile is set
func setupLogger(logFile string) (func(), error) {
	if logFile == "" {
		return func() {}, nil
	}

	if err := utils.EnsureParent(logFile); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(utils.NewMultiLogHandler(newConsoleHandler(), fileHandler)))
	slog.Info("logging to file", "path", logFile)

	return func() { file.Close() }, nil
}

func loadConfig(cmd *cobra.Command) (*server.Config, error) {
	v := viper.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	setDefaults(v)

	// Bind flags to viper
	v.BindPFlag("http.addr", cmd.Flags().Lookup("bind"))
	v.BindPFlag("http.cert_file", cmd.Flags().Lookup("cert"))
	v.BindPFlag("http.key_file", cmd.Flags().Lookup("key"))
	v.BindPFlag("db_path", cmd.Flags().Lookup("db"))

	// Set up environment variables, http.addr => TALENTBASE_HTTP_ADDR
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg server.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so env variables resolve even without a
// config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", server.DefaultAddr)
	v.SetDefault("http.cert_file", "")
	v.SetDefault("http.key_file", "")
	v.SetDefault("http.sync_rate", server.DefaultSyncRate)
	v.SetDefault("db_path", server.DefaultDBPath)
	v.SetDefault("log_dir", "")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("blob.bucket_name", "")
	v.SetDefault("blob.region", "")
	v.SetDefault("blob.access_key", "")
	v.SetDefault("blob.secret_key", "")
	v.SetDefault("blob.endpoint", "")
	v.SetDefault("blob.use_accelerate", false)
	v.SetDefault("blob.public_url", "")
	v.SetDefault("blob.folder", blob.DefaultFolder)
	v.SetDefault("blob.max_upload_size", blob.DefaultMaxUploadSize)

	v.SetDefault("github.api_url", github.DefaultAPIURL)
	v.SetDefault("github.raw_url", github.DefaultRawURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.timeout", github.DefaultTimeout)

	v.SetDefault("sync.owner", workflow.DefaultOwner)
	v.SetDefault("sync.repo", workflow.DefaultRepo)
	v.SetDefault("sync.branch", workflow.DefaultBranch)
	v.SetDefault("sync.extension", workflow.DefaultExtension)
	v.SetDefault("sync.node_type_prefix", workflow.DefaultNodeTypePrefix)
	v.SetDefault("sync.concurrency", workflow.DefaultConcurrency)
	v.SetDefault("sync.prune", false)
	v.SetDefault("sync.timeout", 0)
	v.SetDefault("sync.interval", 0)
}
