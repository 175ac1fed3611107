package models

import (
	"errors"
	"fmt"
)

// Keys of the admin-configurable onboarding fields. Username and password
// belong to the fixed first step and are not configurable.
const (
	FieldAddress   = "address"
	FieldBirthdate = "birthdate"
	FieldAboutYou  = "aboutYou"
)

// Panels that configurable fields may be assigned to.
const (
	PanelTwo   = 2
	PanelThree = 3
)

// ErrConfigurationInvalid marks a rejected field configuration. The wrapped
// message names the offending field or panel.
var ErrConfigurationInvalid = errors.New("configuration invalid")

// KnownFields returns the configurable field keys in display order.
func KnownFields() []string {
	return []string{FieldAddress, FieldBirthdate, FieldAboutYou}
}

type FieldSetting struct {
	Enabled bool `json:"enabled"`
	Panel   int  `json:"panel"`
}

type FieldConfig struct {
	Fields map[string]FieldSetting `json:"fields"`
}

// DefaultFieldConfig is the configuration seeded on first run: all three
// fields enabled, address and birthdate on panel 2, aboutYou on panel 3.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		Fields: map[string]FieldSetting{
			FieldAddress:   {Enabled: true, Panel: PanelTwo},
			FieldBirthdate: {Enabled: true, Panel: PanelTwo},
			FieldAboutYou:  {Enabled: true, Panel: PanelThree},
		},
	}
}

// Validate checks structure first (every known field present with a valid
// panel), then the coverage invariant: whenever any field is enabled, both
// panel 2 and panel 3 must carry at least one enabled field.
func (c FieldConfig) Validate() error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: missing fields object", ErrConfigurationInvalid)
	}
	for _, name := range KnownFields() {
		f, ok := c.Fields[name]
		if !ok {
			return fmt.Errorf("%w: missing configuration for field %q", ErrConfigurationInvalid, name)
		}
		if f.Panel != PanelTwo && f.Panel != PanelThree {
			return fmt.Errorf("%w: field %q must be assigned to panel 2 or 3", ErrConfigurationInvalid, name)
		}
	}
	for name := range c.Fields {
		if !isKnownField(name) {
			return fmt.Errorf("%w: unknown field %q", ErrConfigurationInvalid, name)
		}
	}
	if !c.anyEnabled() {
		return nil
	}
	for _, panel := range []int{PanelTwo, PanelThree} {
		if len(c.EnabledOnPanel(panel)) == 0 {
			return fmt.Errorf("%w: panel %d must have at least one enabled field", ErrConfigurationInvalid, panel)
		}
	}
	return nil
}

// EnabledOnPanel returns the enabled field keys assigned to panel, in
// display order.
func (c FieldConfig) EnabledOnPanel(panel int) []string {
	var keys []string
	for _, name := range KnownFields() {
		if f, ok := c.Fields[name]; ok && f.Enabled && f.Panel == panel {
			keys = append(keys, name)
		}
	}
	return keys
}

func (c FieldConfig) anyEnabled() bool {
	for _, f := range c.Fields {
		if f.Enabled {
			return true
		}
	}
	return false
}

func isKnownField(name string) bool {
	for _, k := range KnownFields() {
		if k == name {
			return true
		}
	}
	return false
}
