package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/flowstate/internal/predicate"
	"github.com/amonks/flowstate/user"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpExpressionsCmd = &cobra.Command{
	Use:   "expressions",
	Short: "Show the variables available to user count expressions",
	Args:  cobra.NoArgs,
	RunE:  runHelpExpressions,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpExpressionsCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpExpressions(cmd *cobra.Command, args []string) error {
	env := user.Env(user.User{})
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	languages := make([]string, 0, len(predicate.ValidLanguages()))
	for _, lang := range predicate.ValidLanguages() {
		languages = append(languages, string(lang))
	}
	fmt.Fprintf(&builder, "Languages: %s\n", strings.Join(languages, ", "))
	builder.WriteString("Variables:\n")
	for _, name := range names {
		fmt.Fprintf(&builder, "  - %s (%T)\n", name, env[name])
	}
	builder.WriteString("Functions:\n")
	builder.WriteString("  - containsFold(s, substr) (bool)\n")
	_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
