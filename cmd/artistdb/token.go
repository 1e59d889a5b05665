package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "token <artwork-id>",
		Short: "Print the box label URL of an artwork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid artwork id %q", args[0])
			}

			if baseURL == "" {
				baseURL = cfg.App.PublicBaseURL
			}
			if baseURL == "" {
				baseURL = "http://localhost" + cfg.Server.ListenAddr
			}

			a, err := bootstrap(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			// the label only makes sense for an existing artwork
			if _, err := a.artwork.Get(cmd.Context(), id); err != nil {
				return err
			}

			url, err := a.box.BoxURL(cmd.Context(), id, baseURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Public base URL (defaults to app.publicBaseURL)")
	return cmd
}
