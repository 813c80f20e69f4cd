package snapshot

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// factsFile is the on-disk schema written by the host recording tooling.
type factsFile struct {
	Identity struct {
		Product        string `yaml:"product"`
		Serial         string `yaml:"serial"`
		ChassisProduct string `yaml:"chassis_product"`
	} `yaml:"identity"`
	// Unavailable lists module categories whose recording source was not
	// usable when the file was written.
	Unavailable []string `yaml:"unavailable"`
	Interfaces  []struct {
		Name        string   `yaml:"name"`
		MAC         string   `yaml:"mac"`
		SpeedMbps   int      `yaml:"speed_mbps"`
		MTU         int      `yaml:"mtu"`
		Up          bool     `yaml:"up"`
		Master      string   `yaml:"master"`
		Transceiver string   `yaml:"transceiver"`
		Addresses   []string `yaml:"addresses"`
	} `yaml:"interfaces"`
	Modules map[string][]struct {
		Bay          string         `yaml:"bay"`
		Manufacturer string         `yaml:"manufacturer"`
		Model        string         `yaml:"model"`
		Serial       string         `yaml:"serial"`
		Attributes   map[string]any `yaml:"attributes"`
	} `yaml:"modules"`
	IPMI *struct {
		MAC  string `yaml:"mac"`
		IPv4 string `yaml:"ipv4"`
	} `yaml:"ipmi"`
}

// FileObserver reads hardware facts recorded to a YAML file by the host
// tooling. It satisfies Observer without touching the hardware itself.
type FileObserver struct {
	path  string
	facts *factsFile
}

var _ Observer = (*FileObserver)(nil)

// NewFileObserver creates an observer over a recorded facts file.
func NewFileObserver(path string) *FileObserver {
	return &FileObserver{path: path}
}

func (o *FileObserver) load() (*factsFile, error) {
	if o.facts != nil {
		return o.facts, nil
	}

	data, err := os.ReadFile(o.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facts file: %w", err)
	}

	var facts factsFile
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, fmt.Errorf("failed to parse facts file %s: %w", o.path, err)
	}
	o.facts = &facts
	return o.facts, nil
}

// Identity implements Observer.
func (o *FileObserver) Identity(ctx context.Context) (Identity, error) {
	facts, err := o.load()
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Product:        facts.Identity.Product,
		Serial:         facts.Identity.Serial,
		ChassisProduct: facts.Identity.ChassisProduct,
	}, nil
}

// Interfaces implements Observer.
func (o *FileObserver) Interfaces(ctx context.Context) ([]InterfaceFact, error) {
	facts, err := o.load()
	if err != nil {
		return nil, err
	}

	out := make([]InterfaceFact, 0, len(facts.Interfaces))
	for _, f := range facts.Interfaces {
		out = append(out, InterfaceFact{
			Name:        f.Name,
			MAC:         f.MAC,
			SpeedMbps:   f.SpeedMbps,
			MTU:         f.MTU,
			Up:          f.Up,
			Master:      f.Master,
			Transceiver: f.Transceiver,
			Addresses:   f.Addresses,
		})
	}
	return out, nil
}

// Modules implements Observer.
func (o *FileObserver) Modules(ctx context.Context, category string) ([]ModuleSpec, error) {
	facts, err := o.load()
	if err != nil {
		return nil, err
	}

	for _, cat := range facts.Unavailable {
		if cat == category {
			return nil, fmt.Errorf("%s: %w", category, ErrUnavailable)
		}
	}

	var out []ModuleSpec
	for _, m := range facts.Modules[category] {
		out = append(out, ModuleSpec{
			Category:     category,
			Bay:          m.Bay,
			Manufacturer: m.Manufacturer,
			Model:        m.Model,
			Serial:       m.Serial,
			Attributes:   m.Attributes,
		})
	}
	return out, nil
}

// IPMI implements Observer.
func (o *FileObserver) IPMI(ctx context.Context) (*IPMIFact, error) {
	facts, err := o.load()
	if err != nil {
		return nil, err
	}
	if facts.IPMI == nil {
		return nil, nil
	}
	return &IPMIFact{MAC: facts.IPMI.MAC, IPv4: facts.IPMI.IPv4}, nil
}
