package main

import (
	"fmt"

	"github.com/sarchlab/pciep/reg"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the control parameters published by the host",
	Run: func(_ *cobra.Command, _ []string) {
		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		res := r.ep.Resolution()
		usecase := r.ep.Usecase()

		fmt.Printf("file length: %d bytes\n", r.ep.FileLength())
		fmt.Printf("resolution:  %dx%d\n", res.Width, res.Height)
		fmt.Printf("mode:        %d\n", usecase.Mode)
		fmt.Printf("format:      %d\n", usecase.Format)
		fmt.Printf("fps:         %d\n", usecase.FPS)
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the packed encoder parameters",
	Run: func(_ *cobra.Command, _ []string) {
		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		p := r.ep.EncParams()
		fmt.Printf("l2 cache:        %v\n", p.EnableL2Cache)
		fmt.Printf("low bandwidth:   %v\n", p.LowBandwidth)
		fmt.Printf("filler data:     %v\n", p.FillerData)
		fmt.Printf("max picture:     %v\n", p.MaxPictureSize)
		fmt.Printf("bitrate:         %d\n", p.Bitrate)
		fmt.Printf("gop length:      %d\n", p.GopLength)
		fmt.Printf("b frames:        %d\n", p.BFrame)
		fmt.Printf("slices:          %d\n", p.Slice)
		fmt.Printf("qp mode:         %d\n", p.QPMode)
		fmt.Printf("rc mode:         %d\n", p.RCMode)
		fmt.Printf("encoder type:    %d\n", p.EncType)
		fmt.Printf("gop mode:        %d\n", p.GopMode)
		fmt.Printf("profile:         %d\n", p.Profile)
		fmt.Printf("min qp:          %d\n", p.MinQP)
		fmt.Printf("max qp:          %d\n", p.MaxQP)
		fmt.Printf("cpb size:        %d\n", p.CPBSize)
		fmt.Printf("initial delay:   %d\n", p.InitialDelay)
		fmt.Printf("idr periodicity: %d\n", p.PeriodicityIDR)
	},
}

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "Dump the register bank",
	Run: func(_ *cobra.Command, _ []string) {
		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		snapshot := r.space.Snapshot()
		for _, offset := range reg.Offsets() {
			fmt.Printf("0x%02x  %-32s 0x%08x\n",
				offset, reg.Name(offset), snapshot[offset])
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(regsCmd)
}
