package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/davarch/actions-dash/internal/infrastructure/config"
	"github.com/davarch/actions-dash/internal/infrastructure/github_http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	checkJSON          bool
	checkWriteDefaults bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and list reachable repositories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkWriteDefaults {
			if err := config.Save(cfgPath, config.Default()); err != nil {
				return err
			}
			fmt.Printf("wrote default configuration to %s\n", cfgPath)
			return nil
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		settings := cfg.Settings()
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		client := github_http.New(settings, zap.NewNop())

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		projects, err := client.Projects(ctx)
		if err != nil {
			return err
		}

		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(projects)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "REPOSITORY\tBRANCH\tUPDATED\tURL")
		for _, p := range projects {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				p.FullName, p.DefaultBranch, p.UpdatedAt.Format(time.RFC3339), p.HTMLURL)
		}
		_ = w.Flush()

		fmt.Printf("\n%d repositories reachable with the current configuration\n", len(projects))
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print JSON")
	checkCmd.Flags().BoolVar(&checkWriteDefaults, "write-defaults", false,
		"write a default configuration file and exit")
	rootCmd.AddCommand(checkCmd)
}
