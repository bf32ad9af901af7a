package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/weft-dev/weft/internal/version"
	"github.com/weft-dev/weft/pkg/config"
	"github.com/weft-dev/weft/pkg/env"
	"github.com/weft-dev/weft/pkg/injection"
	"github.com/weft-dev/weft/pkg/logging"
)

var (
	verbosity int
	phaseName string

	rootCmd = &cobra.Command{
		Use:   "weft",
		Short: "Inspect weft configuration documents",
		Long: `weft loads transformation configuration documents, resolves their
parent hierarchy and reports how they would be applied, without running
any transformation.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&phaseName, "phase", "DEFAULT", "Load phase to evaluate selection against (PREINIT, INIT, DEFAULT)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(pointsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for weft`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("weft version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint <config>...",
	Short: "Parse and link configuration documents",
	Long: `Lint parses the given configuration documents and links their parent
hierarchy, reporting any structural problem: missing required properties,
unknown parents, hierarchy cycles, compatibility conflicts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.GetLogger("cmd.lint")

		_, loader, err := loadAll(args)
		if err != nil {
			return err
		}

		logger.Info().Int("configs", len(args)).Msg("All configurations linked")
		for _, cfg := range loader.Select() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (priority %d, %d declared units)\n",
				cfg.Name, cfg.Priority(), cfg.DeclaredUnitCount())
		}
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order <config>...",
	Short: "Print configurations in application order",
	Long: `Order loads the given configuration documents and prints them in the
order they would be applied: ascending priority, ties broken by load order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, _, err := loadAll(args)
		if err != nil {
			return err
		}

		for i, cfg := range session.Configs().Sorted() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s (priority %d)\n", i+1, cfg.Name, cfg.Priority())
		}
		return nil
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List registered injection point matchers",
	Run: func(cmd *cobra.Command, args []string) {
		for _, code := range injection.Codes() {
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
	},
}

func loadAll(paths []string) (*config.Session, *config.Loader, error) {
	session := config.NewSession()
	if phase, ok := env.PhaseForName(phaseName); ok {
		session.SetActivePhase(phase)
	}

	loader := config.NewLoader(session)
	for _, path := range paths {
		if _, err := loader.LoadFile(path); err != nil {
			return nil, nil, err
		}
	}
	if err := loader.LinkAll(); err != nil {
		return nil, nil, err
	}
	return session, loader, nil
}
