// Pciepctl exercises a PCIe endpoint register protocol against an
// in-process device model: query the published control parameters, run
// bulk transfers, and serve the monitoring API.
package main

func main() {
	Execute()
}
