// Package locale provides locale and translation commands.
package locale

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrei-cloud/plugload/internal/cli"
	"github.com/andrei-cloud/plugload/internal/i18n"
	"github.com/andrei-cloud/plugload/internal/plugins"
)

// NewLocalesCommand creates the locales command.
func NewLocalesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locales",
		Short: "List supported locales",
		Long: `List the locale codes plugin translation files may use. With --match, print
the supported locale that best fits an Accept-Language value instead.`,
		Args: cobra.NoArgs,
		RunE: runLocales,
	}

	cmd.Flags().String("match", "", "Accept-Language value to match against the supported locales")

	return cmd
}

func runLocales(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	accept, _ := cmd.Flags().GetString("match")
	if accept != "" {
		_, err := fmt.Fprintln(out, i18n.Match(accept))

		return err
	}

	w := cli.NewTable(out)
	_, _ = fmt.Fprintln(w, "Code\tName")
	_, _ = fmt.Fprintln(w, "----\t----")
	for _, l := range plugins.Locales() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
	}

	return w.Flush()
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate KEY",
		Short: "Look up a plugin translation",
		Long: `Initialize plugins and print the translation of KEY. Nested keys use dots,
e.g. blog.title. Unknown keys fall back to the default locale, then to KEY itself.`,
		Args: cobra.ExactArgs(1),
		RunE: runTranslate,
	}

	cmd.Flags().String("locale", i18n.DefaultLocale, "locale code")

	return cmd
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	code, _ := cmd.Flags().GetString("locale")
	if !i18n.Supported(code) {
		return fmt.Errorf("unsupported locale %q", code)
	}

	svc, _, err := cli.Load(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = svc.Close(ctx)
	}()

	_, err = fmt.Fprintln(cmd.OutOrStdout(), svc.Loader().Dictionary().Translate(code, args[0]))

	return err
}
