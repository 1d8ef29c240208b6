// Package monitoring turns a running endpoint into a small web server
// so the register bank and transfer state can be inspected from
// outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sarchlab/pciep/endpoint"
	"github.com/sarchlab/pciep/reg"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor serves the state of registered endpoints over HTTP.
type Monitor struct {
	portNumber int
	endpoints  []*endpoint.Endpoint
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterEndpoint registers an endpoint to be monitored.
func (m *Monitor) RegisterEndpoint(ep *endpoint.Endpoint) {
	m.endpoints = append(m.endpoints, ep)
}

// Router returns the monitor's HTTP handler.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/endpoints", m.listEndpoints)
	r.HandleFunc("/api/registers/{name}", m.listRegisters)
	r.HandleFunc("/api/status/{name}", m.listStatus)
	r.HandleFunc("/api/params/{name}", m.listParams)
	r.HandleFunc("/api/endpoint/{name}", m.listEndpointDetails)
	r.HandleFunc("/api/resource", m.listResources)

	return r
}

// StartServer starts the monitor as a web server and returns the URL
// it listens on.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring endpoint with %s\n", url)

	router := m.Router()
	go func() {
		err := http.Serve(listener, router)
		dieOnErr(err)
	}()

	return url
}

func (m *Monitor) listEndpoints(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, ep := range m.endpoints {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, "%q", ep.Name())
	}
	fmt.Fprint(w, "]")
}

type registerRsp struct {
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Value  uint32 `json:"value"`
}

// snapshotter is implemented by register spaces that can be dumped
// without the side effects a hardware read may carry.
type snapshotter interface {
	Snapshot() map[uint32]uint32
}

func (m *Monitor) listRegisters(w http.ResponseWriter, r *http.Request) {
	ep := m.findEndpointOr404(w, mux.Vars(r)["name"])
	if ep == nil {
		return
	}

	space, ok := ep.Registers().(snapshotter)
	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, err := w.Write([]byte("Register space cannot be dumped"))
		dieOnErr(err)
		return
	}

	snapshot := space.Snapshot()
	rsp := make([]registerRsp, 0, len(snapshot))
	for _, offset := range reg.Offsets() {
		rsp = append(rsp, registerRsp{
			Name:   reg.Name(offset),
			Offset: offset,
			Value:  snapshot[offset],
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listStatus(w http.ResponseWriter, r *http.Request) {
	ep := m.findEndpointOr404(w, mux.Vars(r)["name"])
	if ep == nil {
		return
	}

	bytes, err := json.Marshal(ep.Status())
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type paramsRsp struct {
	FileLength uint64 `json:"file_length"`
	Width      uint32 `json:"width"`
	Height     uint32 `json:"height"`
	Mode       uint32 `json:"mode"`
	Format     uint32 `json:"format"`
	FPS        uint32 `json:"fps"`
	EncParams  any    `json:"enc_params"`
}

func (m *Monitor) listParams(w http.ResponseWriter, r *http.Request) {
	ep := m.findEndpointOr404(w, mux.Vars(r)["name"])
	if ep == nil {
		return
	}

	res := ep.Resolution()
	usecase := ep.Usecase()
	rsp := paramsRsp{
		FileLength: ep.FileLength(),
		Width:      res.Width,
		Height:     res.Height,
		Mode:       usecase.Mode,
		Format:     usecase.Format,
		FPS:        usecase.FPS,
		EncParams:  ep.EncParams(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listEndpointDetails(w http.ResponseWriter, r *http.Request) {
	ep := m.findEndpointOr404(w, mux.Vars(r)["name"])
	if ep == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(ep)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memorySize, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findEndpointOr404(
	w http.ResponseWriter,
	name string,
) *endpoint.Endpoint {
	var found *endpoint.Endpoint
	for _, ep := range m.endpoints {
		if ep.Name() == name {
			found = ep
		}
	}

	if found == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Endpoint not found"))
		dieOnErr(err)
	}

	return found
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
