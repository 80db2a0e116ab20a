package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/hupe1980/manifestsplit/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		short      bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the version, git commit, build date, Go version, platform, and YAML library versions.",
		Args:  cobra.NoArgs,
		// Override parent PersistentPreRunE; version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			w := cmd.OutOrStdout()

			switch {
			case jsonOutput:
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(w, j)

				return err
			case short:
				_, err := fmt.Fprintln(w, info.String())

				return err
			default:
				return writeVersionTable(w, info)
			}
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().BoolVar(&short, "short", false, "print a single line")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}

func writeVersionTable(w io.Writer, info version.Info) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)

	tbl.AppendRow(table.Row{"manifestsplit", info.Version})
	tbl.AppendRow(table.Row{"commit", info.GitCommit})
	tbl.AppendRow(table.Row{"built", info.BuildDate})
	tbl.AppendRow(table.Row{"go", info.GoVersion})
	tbl.AppendRow(table.Row{"platform", info.Platform})

	paths := make([]string, 0, len(info.Modules))
	for p := range info.Modules {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		tbl.AppendRow(table.Row{p, info.Modules[p]})
	}

	_, err := io.WriteString(w, tbl.Render()+"\n")

	return err
}
