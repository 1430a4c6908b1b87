package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"knp-timelapse/internal/common"
	"knp-timelapse/internal/site"
)

var errInvalidSite = errors.New("site is invalid")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a site file",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := loadSite()
		if err != nil {
			return err
		}
		return runValidate(cmd.OutOrStdout(), st)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, st *site.Site) error {
	fmt.Fprintf(w, "dates: %d\n", len(st.Data))
	fmt.Fprintf(w, "tiles: %d\n", st.TileCount())

	if b, ok := st.Extent(); ok {
		fmt.Fprintf(w, "extent: %.4f,%.4f %.4f,%.4f\n", b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat())
	} else {
		fmt.Fprintln(w, "warning: no tiles, the viewer will wait for images forever")
	}
	if !common.IsChronological(st.Dates()) {
		fmt.Fprintln(w, "warning: dates are not in chronological order")
	}

	if err := st.Validate(); err != nil {
		fmt.Fprintf(w, "problems:\n%v\n", err)
		return errInvalidSite
	}
	fmt.Fprintln(w, "ok")
	return nil
}
