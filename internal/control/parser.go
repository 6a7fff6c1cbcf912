// Package control implements the ASCII command protocol (§6.2) that drives
// an *rds.Encoder's control surface. It is the external "ASCII command
// parser" collaborator spec.md §1 calls out — ported from the reference
// encoder's ascii_cmd.c line-dispatch shape rather than the teacher's KISS
// frame parsing, since the wire format here is plain newline-delimited
// ASCII, not a binary TNC protocol.
package control

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"

	"github.com/kb9vor/rdsencoder/internal/rds"
)

// ExternalHooks receives commands that §6.2 marks "Not part of RDS core"
// (MPX carrier gains, output volume) so a downstream mixer can still be
// wired in without touching the RDS protocol layer.
type ExternalHooks struct {
	SetCarrierVolume func(channel int, gain uint8)
	SetOutputVolume  func(vol int)
}

// Parser dispatches ASCII command lines to an encoder's setters.
//
// Logger and TimestampFormat are optional: when Logger is set, every
// command line with a keyword and an argument is logged before dispatch
// (unknown and malformed ones included), prefixed with a strftime-formatted
// timestamp if TimestampFormat is non-empty — the same
// "-T, --timestamp-format" convention the teacher's kissutil.go/direwolf
// command-line tools use for preceding received frames with a formatted
// time stamp, applied here to control-surface command lines instead.
type Parser struct {
	Encoder *rds.Encoder
	Hooks   ExternalHooks

	Logger          *log.Logger
	TimestampFormat string
}

// New returns a Parser bound to enc. hooks may be the zero value if the
// MPX/VOL commands should simply be ignored.
func New(enc *rds.Encoder, hooks ExternalHooks) *Parser {
	return &Parser{Encoder: enc, Hooks: hooks}
}

// Process parses and applies a single command line. Unknown or malformed
// commands are silently ignored (§7), matching the reference parser's
// behavior of simply returning without acting.
func (p *Parser) Process(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}

	keyword, arg, ok := strings.Cut(line, " ")
	if !ok {
		return nil
	}
	keyword = strings.ToUpper(keyword)
	p.logCommand(keyword, arg)

	switch keyword {
	case "PI":
		return p.setPI(arg)
	case "PS":
		p.Encoder.SetPS(truncate(arg, rds.PSLength))
	case "RT":
		p.Encoder.SetRT(truncate(arg, rds.RTLength))
	case "PTY":
		return p.setPTY(arg)
	case "PTYN":
		p.setPTYN(arg)
	case "TA":
		p.Encoder.SetTA(arg == "1")
	case "TP":
		p.Encoder.SetTP(arg == "1")
	case "MS":
		p.Encoder.SetMS(arg == "1")
	case "DI":
		return p.setDI(arg)
	case "RTP":
		p.setRTPlusTags(arg)
	case "RTPF":
		p.setRTPlusFlags(arg)
	case "MPX":
		p.setMPX(arg)
	case "VOL":
		p.setVOL(arg)
	}

	return nil
}

func (p *Parser) setPI(arg string) error {
	pi, err := strconv.ParseUint(truncate(arg, 4), 16, 16)
	if err != nil {
		return nil // malformed: ignored, §7
	}
	p.Encoder.SetPI(uint16(pi))
	return nil
}

func (p *Parser) setPTY(arg string) error {
	pty, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return nil
	}
	p.Encoder.SetPTY(uint8(pty))
	return nil
}

func (p *Parser) setPTYN(arg string) {
	arg = truncate(arg, rds.PTYNLength)
	if arg == "-" {
		p.Encoder.SetPTYN("")
		return
	}
	p.Encoder.SetPTYN(arg)
}

func (p *Parser) setDI(arg string) error {
	di, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return nil
	}
	p.Encoder.SetDI(uint8(di))
	return nil
}

// setRTPlusTags parses "t0,s0,l0,t1,s1,l1" (§6.2).
func (p *Parser) setRTPlusTags(arg string) {
	var v [6]uint64
	parts := strings.Split(arg, ",")
	if len(parts) != 6 {
		return
	}
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return
		}
		v[i] = n
	}
	p.Encoder.SetRTPlusTags(uint8(v[0]), uint8(v[1]), uint8(v[2]), uint8(v[3]), uint8(v[4]), uint8(v[5]))
}

// setRTPlusFlags parses "r,t" (§6.2).
func (p *Parser) setRTPlusFlags(arg string) {
	var v [2]uint64
	parts := strings.Split(arg, ",")
	if len(parts) != 2 {
		return
	}
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return
		}
		v[i] = n
	}
	p.Encoder.SetRTPlusFlags(uint8(v[0]), uint8(v[1]))
}

// setMPX parses "g0,g1,g2,g3,g4" and forwards to the external carrier-gain
// hook, if any — MPX is not part of the RDS core (§6.2).
func (p *Parser) setMPX(arg string) {
	if p.Hooks.SetCarrierVolume == nil {
		return
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 5 {
		return
	}
	for i, part := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return
		}
		p.Hooks.SetCarrierVolume(i, uint8(n))
	}
}

// setVOL forwards to the external output-volume hook, if any — not part of
// the RDS core (§6.2).
func (p *Parser) setVOL(arg string) {
	if p.Hooks.SetOutputVolume == nil {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return
	}
	p.Hooks.SetOutputVolume(n)
}

// logCommand emits a diagnostic line for a command about to be dispatched,
// if a Logger is configured. The timestamp prefix is formatted with strftime when
// TimestampFormat is set, matching the teacher's received-frame timestamp
// convention.
func (p *Parser) logCommand(keyword, arg string) {
	if p.Logger == nil {
		return
	}
	if p.TimestampFormat == "" {
		p.Logger.Debug("control command", "keyword", keyword, "arg", arg)
		return
	}
	stamp, err := strftime.Format(p.TimestampFormat, time.Now())
	if err != nil {
		p.Logger.Debug("control command", "keyword", keyword, "arg", arg)
		return
	}
	p.Logger.Debug("control command", "time", stamp, "keyword", keyword, "arg", arg)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// FormatPI renders a PI code the way PI commands expect it back (4 hex
// digits, upper case).
func FormatPI(pi uint16) string {
	return fmt.Sprintf("%04X", pi)
}
