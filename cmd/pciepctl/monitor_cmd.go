package main

import (
	"github.com/pkg/browser"
	"github.com/sarchlab/pciep/monitoring"
	"github.com/spf13/cobra"
)

var (
	monitorPort int
	monitorOpen bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Serve the monitoring API for an endpoint and device model",
	RunE: func(_ *cobra.Command, _ []string) error {
		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		m := monitoring.NewMonitor().WithPortNumber(monitorPort)
		m.RegisterEndpoint(r.ep)
		url := m.StartServer()

		if monitorOpen {
			if err := browser.OpenURL(url + "/api/endpoints"); err != nil {
				return err
			}
		}

		select {}
	},
}

func init() {
	monitorCmd.Flags().IntVar(&monitorPort, "port", 0,
		"port to serve on (0 picks a free port)")
	monitorCmd.Flags().BoolVar(&monitorOpen, "open", false,
		"open the endpoint list in a browser")

	rootCmd.AddCommand(monitorCmd)
}
