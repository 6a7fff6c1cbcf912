// Command rdsencoder runs the RDS group encoder: it loads an init-parameters
// file, accepts ASCII control commands over TCP and/or a serial port, and
// writes the resulting 104-bit/group stream (one byte per bit) to stdout or
// a file, handing off to whatever downstream differential encoder/BPSK
// shaper is driving the actual FM subcarrier.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kb9vor/rdsencoder/internal/control"
	"github.com/kb9vor/rdsencoder/internal/rds"
	"github.com/kb9vor/rdsencoder/internal/rdscfg"
	"github.com/kb9vor/rdsencoder/internal/transport/serial"
	"github.com/kb9vor/rdsencoder/internal/transport/tcp"
)

// groupRate is the RDS bit cadence (1187.5 bit/s) divided by 104 bits/group.
const groupRate = 1187.5 / 104.0

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "Init-parameters YAML file (required).")
		tcpAddr    = pflag.String("tcp", "", "Address to listen on for ASCII control commands, e.g. :8734.")
		serialDev  = pflag.String("serial", "", "Serial device for ASCII control commands, e.g. /dev/ttyUSB0.")
		outPath    = pflag.StringP("output", "o", "-", "Output file for the bit stream (- for stdout).")
		tsFormat   = pflag.StringP("timestamp-format", "T", "", "Precede logged control commands with a 'strftime' format time stamp.")
		help       = pflag.Bool("help", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - RDS group encoder\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s --config FILE [--tcp ADDR] [--serial DEV] [--output FILE]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.Default()

	if *configPath == "" {
		logger.Error("missing required --config flag")
		pflag.Usage()
		os.Exit(1)
	}

	params, err := rdscfg.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}

	enc := rds.New(params, nil)
	if params.RBDSMode {
		logger.Info("RBDS call sign derived PI", "call_sign", params.CallSign, "pi", fmt.Sprintf("%04X", enc.PI()))
	}

	parser := control.New(enc, control.ExternalHooks{})
	parser.Logger = logger
	parser.TimestampFormat = *tsFormat

	if *tcpAddr != "" {
		srv := tcp.New(parser, logger)
		go func() {
			if err := srv.ListenAndServe(*tcpAddr); err != nil {
				logger.Error("control TCP server stopped", "error", err)
			}
		}()
	}

	if *serialDev != "" {
		listener, err := serial.Open(serial.Config{Device: *serialDev}, parser)
		if err != nil {
			logger.Error("opening serial control port", "error", err)
			os.Exit(1)
		}
		defer listener.Close()
		go func() {
			if err := listener.Run(); err != nil {
				logger.Error("serial control port stopped", "error", err)
			}
		}()
	}

	out := os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("opening output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	logger.Info("rdsencoder started", "pi", fmt.Sprintf("%04X", enc.PI()), "group_rate_hz", groupRate)

	runEncoder(enc, out, logger)
}

func runEncoder(enc *rds.Encoder, out *os.File, logger *log.Logger) {
	period := time.Duration(float64(time.Second) / groupRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	buf := make([]byte, 104)
	for range ticker.C {
		bits := enc.NextBits()
		for i, b := range bits {
			buf[i] = b
		}
		if _, err := out.Write(buf); err != nil {
			logger.Error("writing bit stream", "error", err)
			return
		}
	}
}
