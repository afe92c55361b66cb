package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd(d deps) *cobra.Command {
	flags := &globalFlags{}
	a := &app{deps: d, flags: flags}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Admin console for the mentoring platform",
		Long: `formadmin manages users, mentors, coding questions, jobs and
announcements through the platform's HTTP APIs.

Endpoints, timeouts and the optional Redis list cache are configured with
FORMADMIN_* environment variables, a .env file or a YAML file. Run
"formadmin config" for the full reference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(d.stdin)
	cmd.SetOut(d.stdout)
	cmd.SetErr(d.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file (default .env when present)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.redisAddr, "redis-addr", "", "redis address for the list cache")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write submission metrics to this file on exit")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout, 0 disables it")
	pf.StringVar(&flags.templateDir, "templates", "", "directory with templates overriding the built-in views")

	cmd.AddCommand(
		newAddCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newListCmd(a),
		newFormsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			return err
		},
	}
}
