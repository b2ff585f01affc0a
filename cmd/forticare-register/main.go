package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ftnt-tools/forticare-register/forticare"
	"github.com/ftnt-tools/forticare-register/forticare/inventory"
)

func main() {
	// Variables already in the environment win over .env.
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args, os.Stderr))
}

// run executes one registration batch and returns the process exit code:
// 0 on completion (even with per-code failures), 1 when the run was aborted,
// 2 for invalid usage or configuration.
func run(ctx context.Context, argv []string, stderr io.Writer) int {
	opts, err := newOptionsFromFlags(argv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	env, err := loadEnv()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", commandName, err)
		return 2
	}

	logger := newLogger(stderr, opts.LogLevel, env.NoColor != "")

	if err := opts.Validate(); err != nil {
		logger.Error("configuration is invalid", slog.Any("error", err))
		return 2
	}

	creds := resolveCredentials(logger, opts, env)

	managerOpts := []forticare.ManagerOption{
		forticare.WithManagerLogger(logger),
		forticare.WithAPIClient(forticare.NewClient(
			forticare.WithLogger(logger),
			forticare.WithAuthURL(env.AuthURL),
			forticare.WithRegistrationURL(env.RegistrationURL),
			forticare.WithTimeout(env.HTTPTimeout),
		)),
	}
	if opts.Inventory != "" {
		store, err := inventory.Open(ctx, opts.Inventory)
		if err != nil {
			logger.Error("failed to open inventory", slog.Any("error", err))
			return 1
		}
		defer store.Close(ctx)
		managerOpts = append(managerOpts, forticare.WithInventory(store))
	}

	manager := forticare.NewManager(managerOpts...)
	report, err := manager.Run(ctx, forticare.Job{
		Credentials:      creds,
		Archives:         opts.Archives,
		Addresses:        opts.IPv4Addresses,
		LicenseDir:       opts.LicenseDir,
		SkipLicenseFiles: opts.NoLicenses,
	})
	if err != nil {
		logger.Error("registration run aborted", slog.Any("error", err))
		return 1
	}

	logger.Info("registration run complete",
		slog.String("run_id", report.RunID),
		slog.Int("codes", len(report.Extract.Codes)),
		slog.Int("registered", len(report.Register.Licenses)),
		slog.Int("failed", len(report.Register.Failed)),
		slog.Int("license_files", len(report.Persist.Written)))
	return 0
}
