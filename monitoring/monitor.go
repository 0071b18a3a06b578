package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/virtualtime/vclock"
)

// Monitor turns a warped clock into a small web server, so the transform and
// the schedule can be inspected while a session runs. It is a development
// aid: the clock itself is single-owner, so the monitor only answers
// read-only queries and should not be pointed at a clock that is being
// mutated concurrently at a high rate.
type Monitor struct {
	clock      *vclock.Clock
	portNumber int
	router     *mux.Router
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.buildRouter()

	return m
}

// WithPortNumber sets the port number of the monitor server.
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

// RegisterClock registers the clock to be monitored.
func (m *Monitor) RegisterClock(c *vclock.Clock) {
	m.clock = c
}

// Router returns the HTTP router, mainly so tests can drive the endpoints
// without a listener.
func (m *Monitor) Router() *mux.Router {
	return m.router
}

func (m *Monitor) buildRouter() {
	r := mux.NewRouter()
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/transform", m.transform)
	r.HandleFunc("/api/schedule", m.schedule)
	r.HandleFunc("/api/state", m.state)
	r.HandleFunc("/api/resource", m.listResources)

	m.router = r
}

// StartServer starts serving the monitor, on the configured port or a random
// free one.
func (m *Monitor) StartServer() {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	fmt.Fprintf(
		os.Stderr,
		"Monitoring clock with http://localhost:%d\n",
		listener.Addr().(*net.TCPAddr).Port)

	go func() {
		err := http.Serve(listener, m.router)
		dieOnErr(err)
	}()
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%q}",
		m.clock.Now().Format(time.RFC3339Nano))
}

type transformRsp struct {
	Speed   float64 `json:"speed"`
	ShiftNS int64   `json:"shift_ns"`
}

func (m *Monitor) transform(w http.ResponseWriter, _ *http.Request) {
	f := m.clock.Transform()

	writeJSON(w, transformRsp{
		Speed:   f.Speed(),
		ShiftNS: int64(f.Shift()),
	})
}

type occurrenceRsp struct {
	Due       string `json:"due"`
	TimerID   string `json:"timer_id,omitempty"`
	Repeats   bool   `json:"repeats,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Detached  bool   `json:"detached,omitempty"`
}

func (m *Monitor) schedule(w http.ResponseWriter, _ *http.Request) {
	pending := m.clock.Pending()

	rsp := make([]occurrenceRsp, 0, len(pending))
	for _, o := range pending {
		r := occurrenceRsp{Due: o.Due.Format(time.RFC3339Nano)}
		if o.Timer == nil {
			r.Detached = true
		} else {
			r.TimerID = o.Timer.ID()
			r.Repeats = o.Timer.Repeats()
			r.Cancelled = o.Timer.Cancelled()
		}

		rsp = append(rsp, r)
	}

	writeJSON(w, rsp)
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(m.clock)
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

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
