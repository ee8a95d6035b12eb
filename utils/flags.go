package utils

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags binds every flag of cmd and its subcommands to v. A flag the user
// did not set on the command line takes its value from the config file or the
// environment (upper-case, dashes as underscores, prefixed by envPrefix).
func BindFlags(cmd *cobra.Command, v *viper.Viper, envPrefix string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	bind := func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = bindAndSetFlag(v, f)
	}

	cmd.PersistentFlags().VisitAll(bind)
	cmd.Flags().VisitAll(bind)
	if bindErr != nil {
		return bindErr
	}

	for _, sub := range cmd.Commands() {
		if err := BindFlags(sub, v, envPrefix); err != nil {
			return err
		}
	}
	return nil
}

func bindAndSetFlag(v *viper.Viper, f *pflag.Flag) error {
	if err := v.BindPFlag(f.Name, f); err != nil {
		return fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
	}
	if f.Changed || !v.IsSet(f.Name) {
		return nil
	}

	val := v.Get(f.Name)
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		if err := sv.Replace(toStrings(val)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", f.Name, err)
		}
		return nil
	}
	if err := f.Value.Set(cast.ToString(val)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", f.Name, err)
	}
	return nil
}

func toStrings(val any) []string {
	if s, ok := val.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return cast.ToStringSlice(val)
}
