package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docchat/internal/app"
	"docchat/internal/tui"
)

const version = "0.3.0"

func buildApplication(cmd *cobra.Command) (*app.Application, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("server"); v != "" {
		cfg.ServerURL = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.AuthToken = v
	}
	mock, _ := cmd.Flags().GetBool("mock")
	return app.NewApplication(cfg, mock)
}

func main() {
	root := &cobra.Command{
		Use:     "docchat [file]",
		Short:   "Chat with your documents from the terminal",
		Long:    "docchat uploads a PDF, tracks its processing, and opens a chat session on it.\nRun without arguments to pick a file inside the TUI, or pass a path to prefill the upload.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApplication(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			file := ""
			if len(args) > 0 {
				file = args[0]
			}

			if noTUI, _ := cmd.Flags().GetBool("no-tui"); noTUI {
				return runPlain(application, file)
			}

			p := tea.NewProgram(tui.New(application, file), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().String("config", "", "path to config file")
	root.PersistentFlags().String("server", "", "server base URL (overrides config)")
	root.PersistentFlags().String("token", "", "auth token (overrides config)")
	root.PersistentFlags().Bool("mock", false, "run against an in-process fake backend")
	root.Flags().BoolP("no-tui", "n", false, "plain line-oriented mode instead of the TUI")

	docs := &cobra.Command{
		Use:   "docs",
		Short: "List previously uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := buildApplication(cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			list, err := application.Flow.ListDocuments(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATE\tUPLOADED")
			for _, d := range list {
				state := "unprocessed"
				if d.Processed {
					state = "processed"
				}
				uploaded := ""
				if !d.UploadedAt.IsZero() {
					uploaded = d.UploadedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, d.Name, state, uploaded)
			}
			return w.Flush()
		},
	}
	root.AddCommand(docs)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
