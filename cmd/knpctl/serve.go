package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"knp-timelapse/internal/handlers/tileserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tile images under /static/KNP/",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		s := tileserver.NewServer(viper.GetString("static_dir"))
		if err := s.Start(addr); err != nil {
			return err
		}
		defer s.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", viper.GetString("static_dir"), s.GetTileServerURL())

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}
