// Package rdscfg loads the encoder's init parameters (§6.3) from a YAML
// configuration file, in the same gopkg.in/yaml.v3 idiom src/deviceid.go
// uses for loading tocalls.yaml.
package rdscfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kb9vor/rdsencoder/internal/rds"
)

// File is the on-disk shape of the init-parameters file.
type File struct {
	PI       string  `yaml:"pi"` // 4 hex digits
	PS       string  `yaml:"ps"`
	RT       string  `yaml:"rt"`
	PTY      uint8   `yaml:"pty"`
	PTYN     string  `yaml:"ptyn"`
	TP       bool    `yaml:"tp"`
	AF       []uint8 `yaml:"af"`
	RBDSMode bool    `yaml:"rbds_mode"`
	CallSign string  `yaml:"call_sign"`
}

// Load reads and parses a YAML init-parameters file into rds.InitParams.
func Load(path string) (rds.InitParams, error) {
	var f File

	data, err := os.ReadFile(path)
	if err != nil {
		return rds.InitParams{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return rds.InitParams{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	var pi uint16
	if f.PI != "" {
		if _, err := fmt.Sscanf(f.PI, "%04x", &pi); err != nil {
			return rds.InitParams{}, fmt.Errorf("parsing pi %q: %w", f.PI, err)
		}
	}

	var afList rds.AFList
	afList.NumAFs = len(f.AF)
	if afList.NumAFs > len(afList.AFs) {
		afList.NumAFs = len(afList.AFs)
	}
	copy(afList.AFs[:], f.AF)

	return rds.InitParams{
		PI:       pi,
		PS:       f.PS,
		RT:       f.RT,
		PTY:      f.PTY,
		PTYN:     f.PTYN,
		TP:       f.TP,
		AF:       afList,
		RBDSMode: f.RBDSMode,
		CallSign: f.CallSign,
	}, nil
}
