package session

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/xid"

	"github.com/sarchlab/virtualtime/monitoring"
	"github.com/sarchlab/virtualtime/recording"
	"github.com/sarchlab/virtualtime/vclock"
)

// Builder can be used to build a session.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
	ref            vclock.ReferenceClock
}

// MakeBuilder creates a new builder with monitoring and recording on,
// running on top of the system clock. Defaults can also come from the
// environment, with a .env file honored: VIRTUALTIME_MONITOR_PORT sets the
// monitor port and VIRTUALTIME_OUTPUT the recording file name.
func MakeBuilder() Builder {
	b := Builder{
		monitorOn:   true,
		recordingOn: true,
		ref:         vclock.WallClock{},
	}

	return b.withEnvDefaults()
}

func (b Builder) withEnvDefaults() Builder {
	_ = godotenv.Load()

	if port := os.Getenv("VIRTUALTIME_MONITOR_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			panic(fmt.Errorf("invalid VIRTUALTIME_MONITOR_PORT %q: %w",
				port, err))
		}

		b.monitorPort = p
	}

	if out := os.Getenv("VIRTUALTIME_OUTPUT"); out != "" {
		b.outputFileName = out
	}

	return b
}

// WithoutMonitoring sets the session to not start a monitor server.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording sets the session to not record firings.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets a custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithReferenceClock sets the real-time source the warped clock runs on top
// of.
func (b Builder) WithReferenceClock(ref vclock.ReferenceClock) Builder {
	b.ref = ref
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}
}

// Build builds the session.
func (b Builder) Build() *Session {
	b.parametersMustBeValid()

	s := &Session{
		id:    xid.New().String(),
		clock: vclock.New(b.ref),
		stop:  make(chan struct{}),
	}

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "virtualtime_session_" + s.id
		}

		s.recorder = recording.NewDataRecorder(outputPath)
		s.clock.AcceptHook(recording.NewFiringLog(s.recorder))
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		s.monitor.RegisterClock(s.clock)
		s.monitor.StartServer()
	}

	return s
}
