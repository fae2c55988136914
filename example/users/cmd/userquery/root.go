package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/dynamic-filter-repository-go/example/users/config"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/example/users/core"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/oteladapters"
	"github.com/AntonStoeckl/dynamic-filter-repository-go/repository/postgresengine"
)

const instrumentationName = "userquery"

var ErrOpeningRepository = errors.New("opening the user repository failed")

// userRepository is the repository every subcommand queries.
type userRepository = postgresengine.Repository[core.User]

// repositoryOpener connects to the database described by cfg. The returned close func releases the connections.
type repositoryOpener func(ctx context.Context, cfg config.Config, opts ...postgresengine.Option) (*userRepository, func(), error)

// rootOptions holds the global flags of all commands.
type rootOptions struct {
	configFile string
	eventual   bool
	otel       bool
	open       repositoryOpener
}

func newRootCommand(open repositoryOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "userquery",
		Short:         "Query users with dynamic property filters",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.eventual, "eventual", false, "allow reads from the replica")
	cmd.PersistentFlags().BoolVar(&opts.otel, "otel", false, "report through the global OpenTelemetry providers")

	cmd.AddCommand(newFindCommand(opts))
	cmd.AddCommand(newGetCommand(opts))
	cmd.AddCommand(newOneCommand(opts))
	cmd.AddCommand(newFieldCommand(opts))

	return cmd
}

// withRepository loads the config, opens the repository and runs fn with it.
func (o *rootOptions) withRepository(cmd *cobra.Command, fn func(ctx context.Context, repo *userRepository, out io.Writer) error) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}

	level, _ := cfg.SlogLevel() // validated by config.Load
	logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	repoOpts := []postgresengine.Option{postgresengine.WithHooks(core.UserHooks())}

	if o.otel {
		repoOpts = append(repoOpts,
			postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger(instrumentationName)),
			postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
			postgresengine.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
		)
	} else {
		repoOpts = append(repoOpts, postgresengine.WithContextualLogger(logger))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo, closeDB, err := o.open(ctx, cfg, repoOpts...)
	if err != nil {
		return errors.Join(ErrOpeningRepository, err)
	}
	defer closeDB()

	if o.eventual {
		ctx = repository.WithEventualConsistency(ctx)
	}

	return fn(ctx, repo, cmd.OutOrStdout())
}

// openUserRepository connects with the configured adapter.
func openUserRepository(
	ctx context.Context,
	cfg config.Config,
	opts ...postgresengine.Option,
) (*userRepository, func(), error) {

	switch cfg.Adapter {
	case config.AdapterSQL:
		db, err := cfg.Postgres.NewSQLDB()
		if err != nil {
			return nil, nil, err
		}

		repo, err := postgresengine.NewRepositoryFromSQLDB(db, core.UserMapping(), opts...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return repo, func() { _ = db.Close() }, nil

	case config.AdapterSQLX:
		db, err := cfg.Postgres.NewSQLXDB()
		if err != nil {
			return nil, nil, err
		}

		repo, err := postgresengine.NewRepositoryFromSQLX(db, core.UserMapping(), opts...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return repo, func() { _ = db.Close() }, nil
	}

	pool, err := cfg.Postgres.NewPGXPool(ctx)
	if err != nil {
		return nil, nil, err
	}

	replica, err := cfg.Postgres.NewPGXReplicaPool(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	if replica == nil {
		repo, repoErr := postgresengine.NewRepositoryFromPGXPool(pool, core.UserMapping(), opts...)
		if repoErr != nil {
			pool.Close()
			return nil, nil, repoErr
		}

		return repo, pool.Close, nil
	}

	closeAll := func() {
		replica.Close()
		pool.Close()
	}

	repo, err := postgresengine.NewRepositoryFromPGXPoolWithReplica(pool, replica, core.UserMapping(), opts...)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return repo, closeAll, nil
}

var _ repositoryOpener = openUserRepository

