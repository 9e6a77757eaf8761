package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ordercard/internal/activation"
	"ordercard/internal/config"
	"ordercard/internal/domain"
	"ordercard/internal/infrastructure/logger"
	"ordercard/internal/infrastructure/mysql"
	"ordercard/internal/kvstore"
	"ordercard/internal/registry"
	"ordercard/internal/registry/repository"
)

var errNotActivated = errors.New("this copy is not activated; run `ordercard activate` first")

// app carries what the commands share. It is set up once per invocation in
// the root command's pre-run hook.
type app struct {
	configPath string

	cfg     *config.Config
	logger  *zap.Logger
	closers []func() error
}

func execute(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ordercard",
		Short: "Create, preview and share jewelry order cards",
		Long: `ordercard builds a jewelry order from a form and turns it into a
card for the customer (party) or the workshop.

Every command except activate, status and deactivate needs an activated copy.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("ORDERCARD_CONFIG"), "path to a YAML config file")

	root.AddCommand(
		newActivateCmd(a),
		newStatusCmd(a),
		newDeactivateCmd(a),
		newEditCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	l, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = l
	a.closers = append(a.closers, func() error {
		_ = l.Sync()
		return nil
	})
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("closing resource", zap.Error(err))
		}
	}
	a.closers = nil
}

// gate opens the identity store and wires the redeemer selected by
// REGISTRY_MODE.
func (a *app) gate(ctx context.Context) (*activation.Gate, error) {
	store, err := a.identityStore()
	if err != nil {
		return nil, err
	}

	redeemer, err := a.redeemer(ctx)
	if err != nil {
		return nil, err
	}

	return activation.NewGate(
		redeemer,
		store,
		a.logger,
		activation.WithTimeout(a.cfg.Registry.Timeout),
	), nil
}

func (a *app) identityStore() (*activation.KVIdentityStore, error) {
	kv, err := kvstore.OpenSQLite(filepath.Join(a.cfg.State.Dir, "state.db"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, kv.Close)
	return activation.NewIdentityStore(kv), nil
}

// redeemer returns nil when no registry is configured.
func (a *app) redeemer(ctx context.Context) (activation.Redeemer, error) {
	switch a.cfg.Registry.Mode {
	case config.RegistryModeMySQL:
		db, err := mysql.NewConnection(ctx, a.cfg.Database)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := repository.NewMySQLRedemptionRepository(db).EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return registry.NewUseCase(db, a.cfg, a.logger), nil
	default:
		if a.cfg.Registry.URL == "" {
			return nil, nil
		}
		return activation.NewRegistryClient(a.cfg.Registry.URL, nil, a.logger), nil
	}
}

// requireActivation restores the stored identity or fails. It never
// contacts the registry.
func (a *app) requireActivation(ctx context.Context) (*domain.UserIdentity, error) {
	store, err := a.identityStore()
	if err != nil {
		return nil, err
	}
	identity, err := activation.NewGate(nil, store, a.logger).Restore(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errNotActivated
	}
	return identity, nil
}
