package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"knp-timelapse/internal/engine/memory"
	"knp-timelapse/internal/mapview"
	"knp-timelapse/internal/site"
)

type planOptions struct {
	date           string
	loaded         int
	referenceLayer string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Simulate loading a site and print the resulting layers",
	Long: `plan registers the site on an in-memory map, reports pixel content for
--loaded images (all by default) and prints every layer with its visibility.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadSite()
		if err != nil {
			return err
		}

		date, _ := cmd.Flags().GetString("date")
		loaded, _ := cmd.Flags().GetInt("loaded")
		return runPlan(cmd.OutOrStdout(), st, planOptions{
			date:           date,
			loaded:         loaded,
			referenceLayer: viper.GetString("reference_layer"),
		})
	},
}

func init() {
	planCmd.Flags().String("date", "", "selected date (default is the first date)")
	planCmd.Flags().Int("loaded", -1, "number of images reported as loaded, -1 for all")
	rootCmd.AddCommand(planCmd)
}

func runPlan(w io.Writer, st *site.Site, po planOptions) error {
	if po.date == "" {
		if dates := st.Dates(); len(dates) > 0 {
			po.date = dates[0]
		}
	}

	eng := memory.NewWithDefaultStyle()
	opts := mapview.DefaultOptions()
	opts.InitialDate = po.date
	if po.referenceLayer != "" {
		opts.ReferenceLayer = po.referenceLayer
	}
	v := mapview.New(st, eng, opts)

	if err := v.Initialize(); err != nil {
		return fmt.Errorf("failed to register overlays: %w", err)
	}
	eng.LoadImages(po.loaded)

	s := v.State()
	fmt.Fprintf(w, "date: %s\n", s.CurrentDate)
	fmt.Fprintf(w, "images: %d/%d loaded\n", s.LoadedImages, s.ImageCount)
	if s.ShowProgress() {
		fmt.Fprintln(w, "progress indicator: shown")
	} else {
		fmt.Fprintln(w, "progress indicator: hidden")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYER\tTYPE\tVISIBILITY")
	for _, l := range eng.Layers() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", l.ID, l.Type, l.Visibility)
	}
	return tw.Flush()
}
