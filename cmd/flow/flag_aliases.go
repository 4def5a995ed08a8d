package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var priorityFlagAliases = map[string]string{
	"pri": "priority",
}

var userFlagAliases = map[string]string{
	"dept":   "department",
	"skills": "skill",
}

func addPriorityFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), priorityFlagAliases)
	}
}

func addUserFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), userFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
