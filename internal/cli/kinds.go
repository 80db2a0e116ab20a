package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/manifestsplit/internal/routing"
)

func newKindsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the kind-to-file routing table",
		Long: `Print every kind with an explicit route, the file it is written to, and
whether that file is listed in kustomization.yaml. Kinds not shown here are
written to ` + routing.CatchAllFile + `.`,
		Args: cobra.NoArgs,
		// Override parent PersistentPreRunE; kinds needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeRoutes(cmd.OutOrStdout(), routing.Routes(), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, yaml")

	return cmd
}

func writeRoutes(w io.Writer, routes []routing.Route, format string) error {
	switch format {
	case "table":
		tbl := table.NewWriter()
		tbl.SetStyle(table.StyleRounded)
		tbl.AppendHeader(table.Row{"kind", "file", "indexed"})

		for _, r := range routes {
			tbl.AppendRow(table.Row{r.Kind, r.Filename, r.Indexed})
		}

		_, err := io.WriteString(w, tbl.Render()+"\n")

		return err
	case "json":
		data, err := json.MarshalIndent(routes, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling routes: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	case "yaml":
		data, err := sigsyaml.Marshal(routes)
		if err != nil {
			return fmt.Errorf("marshaling routes: %w", err)
		}

		_, err = w.Write(data)

		return err
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("unsupported format %q (want table, json, or yaml)", format)}
	}
}
