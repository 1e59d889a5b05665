package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/totegamma/artistdb/internal/domain"
)

func newArtworksCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "artworks",
		Short: "List artworks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			a, err := bootstrap(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			artworks, err := a.artwork.List(cmd.Context(), status)
			if err != nil {
				return err
			}
			if len(artworks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No artworks")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderArtworks(artworks))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (working, for_sale, sold)")
	return cmd
}

var artworkColumns = []column{
	{header: "ID", align: text.AlignRight},
	{header: "Title", align: text.AlignLeft, widthMax: 40},
	{header: "Year", align: text.AlignRight},
	{header: "Medium", align: text.AlignLeft, widthMax: 24},
	{header: "Status", align: text.AlignLeft},
	{header: "Price", align: text.AlignRight},
	{header: "Image", align: text.AlignLeft},
}

func renderArtworks(artworks []domain.Artwork) string {
	rows := make([][]string, 0, len(artworks))
	for _, a := range artworks {
		image := ""
		if a.ImageFilename != "" {
			image = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(a.ID, 10),
			a.Title,
			a.Year,
			a.Medium,
			string(a.Status),
			a.Price,
			image,
		})
	}
	return renderTable(artworkColumns, rows)
}
