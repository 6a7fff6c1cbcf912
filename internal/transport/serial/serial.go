// Package serial delivers ASCII control commands (§6.2) over an RS-232 or
// USB-serial line, the natural transport for a broadcast automation system
// talking to a standalone RDS encoder box. It wraps github.com/daedaluz/
// goserial the same way that library's own examples open, configure, and
// read a line-disciplined port.
package serial

import (
	"bufio"
	"fmt"

	serialport "github.com/daedaluz/goserial"

	"github.com/kb9vor/rdsencoder/internal/control"
)

// Config describes how to open and configure the serial line.
type Config struct {
	Device string
	Baud   serialport.CFlag
}

// DefaultBaud is the rate the reference encoder's command port ships with.
const DefaultBaud = serialport.B9600

// Listener reads newline-delimited ASCII commands from a serial port and
// applies them to a Parser, one line at a time, until the port is closed.
type Listener struct {
	port   *serialport.Port
	parser *control.Parser
}

// Open opens and configures the serial device described by cfg and returns
// a Listener ready to Run.
func Open(cfg Config, parser *control.Parser) (*Listener, error) {
	port, err := serialport.Open(cfg.Device, nil)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %q: %w", cfg.Device, err)
	}

	attrs, err := port.GetAttr()
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("reading serial attrs: %w", err)
	}
	attrs.MakeRaw()
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	attrs.SetSpeed(baud)
	if err := port.SetAttr(serialport.TCSANOW, attrs); err != nil {
		port.Close()
		return nil, fmt.Errorf("configuring serial port: %w", err)
	}

	return &Listener{port: port, parser: parser}, nil
}

// Run reads lines until the port errors or is closed, applying each to the
// bound Parser. It returns the terminal read error (nil if Close caused it).
func (l *Listener) Run() error {
	scanner := bufio.NewScanner(l.port)
	for scanner.Scan() {
		if err := l.parser.Process(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Close releases the underlying serial port.
func (l *Listener) Close() error {
	return l.port.Close()
}
