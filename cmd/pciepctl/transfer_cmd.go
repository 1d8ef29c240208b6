package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	readBytes  int
	readOffset uint64
	readOut    string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Run one read transfer through the buffer-exchange handshake",
	RunE: func(_ *cobra.Command, _ []string) error {
		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		if readOffset > 0 {
			s.Seek(readOffset)
		}

		p := make([]byte, readBytes)
		n, err := s.Read(p)
		if err != nil {
			return err
		}

		if readOut != "" {
			if err := os.WriteFile(readOut, p[:n], 0644); err != nil {
				return err
			}
			fmt.Printf("read %d bytes at offset %d into %s\n",
				n, readOffset, readOut)
			return nil
		}

		fmt.Printf("read %d bytes at offset %d: % x ...\n",
			n, readOffset, p[:min(16, n)])
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write [file]",
	Short: "Run one write transfer through the buffer-exchange handshake",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		data := make([]byte, 4096)
		for i := range data {
			data[i] = byte(i)
		}
		if len(args) == 1 {
			var err error
			data, err = os.ReadFile(args[0])
			if err != nil {
				return err
			}
		}

		r := buildRig()
		defer r.close()

		s := r.ep.Open()
		defer s.Close()

		n, err := s.Write(data)
		if err != nil {
			return err
		}

		fmt.Printf("wrote %d bytes, device captured %d transfer(s)\n",
			n, len(r.host.Received()))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the transfer registers to the known-clean state",
	Run: func(_ *cobra.Command, _ []string) {
		r := buildRig()
		defer r.close()

		r.ep.ResetAll()
		fmt.Println("registers reset")
	},
}

func init() {
	readCmd.Flags().IntVar(&readBytes, "bytes", 4096,
		"number of bytes to read")
	readCmd.Flags().Uint64Var(&readOffset, "offset", 0,
		"read offset published before the transfer")
	readCmd.Flags().StringVar(&readOut, "out", "",
		"write the received bytes to this file")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(resetCmd)
}
