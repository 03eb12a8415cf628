// Package main provides the keeper CLI: account commands and an interactive
// shell over a locally stored account collection.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lostprophetsco/saasoft-tz/internal/client"
	"github.com/lostprophetsco/saasoft-tz/internal/config"
	"github.com/lostprophetsco/saasoft-tz/internal/logger"
	"github.com/lostprophetsco/saasoft-tz/internal/repository"
	"github.com/lostprophetsco/saasoft-tz/internal/service"
	"github.com/lostprophetsco/saasoft-tz/internal/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// session holds what the commands share once the store is open.
type session struct {
	in  io.Reader
	out io.Writer

	log     *logger.Logger
	backend storage.Backend
	repo    *repository.AccountRepository
	app     *client.App
}

// open loads configuration, opens the storage medium and hydrates the
// repository.
func (s *session) open(cmd *cobra.Command) error {
	opts, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	s.log = logger.New()
	if err := s.log.Init(lo.CoalesceOrEmpty(opts.LogLevel, "warn")); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	s.backend, err = storage.Open(cmd.Context(), opts.StorageConfig())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	s.repo = repository.NewAccountRepository(s.backend, s.log.Log)
	s.repo.Hydrate(cmd.Context())
	s.app = client.NewApp(service.NewAccountService(s.repo), s.in, s.out)
	return nil
}

func (s *session) close() error {
	if s.log != nil {
		_ = s.log.Log.Sync()
	}
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Close(); err != nil {
		s.log.Log.Error("failed to close storage", zap.Error(err))
		return err
	}
	return nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	s := &session{in: in, out: out}

	root := &cobra.Command{
		Use:   "keeper",
		Short: "Keeper manages LDAP and local account records",
		Long: `Keeper stores account records (type, login, password and labels)
in a local storage medium. Records are added, edited and then saved once they
pass validation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// version needs no store
			if cmd.Name() == "version" {
				return nil
			}
			return s.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetContext(context.Background())

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newVersionCmd(),
		newListCmd(s),
		newShowCmd(s),
		newAddCmd(s),
		newEditCmd(s),
		newTypeCmd(s),
		newSaveCmd(s),
		newDeleteCmd(s),
		newShellCmd(s),
	)
	return root
}
