package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/wizard"
)

func TestValidateBirthdate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"blank", "", "Birthdate is required."},
		{"wrong format", "05/14/1990", "Birthdate must be in YYYY-MM-DD format."},
		{"overflowed day", "2023-02-30", "Invalid date. Please check month and day values."},
		{"nonexistent month", "2023-13-01", "Invalid date. Please check month and day values."},
		{"future", "2999-01-01", "Birthdate cannot be in the future."},
		{"valid", "1990-05-14", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wizard.ValidateBirthdate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  wizard.AddressParts
	}{
		{
			"full",
			"1 Main St, Springfield, IL 62704",
			wizard.AddressParts{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62704"},
		},
		{
			"multi-word state",
			"5 Elm Ave, Albany, New York 12207",
			wizard.AddressParts{Street: "5 Elm Ave", City: "Albany", State: "New York", Zip: "12207"},
		},
		{
			"street only",
			"1 Main St",
			wizard.AddressParts{Street: "1 Main St"},
		},
		{
			"street and city",
			"1 Main St, Springfield",
			wizard.AddressParts{Street: "1 Main St", City: "Springfield"},
		},
		{
			"empty",
			"",
			wizard.AddressParts{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wizard.ParseAddress(tt.input))
		})
	}
}

func TestCombineAddressRoundTrip(t *testing.T) {
	// Canonical three-segment inputs survive a parse/combine cycle.
	inputs := []string{
		"1 Main St, Springfield, IL 62704",
		"5 Elm Ave, Albany, New York 12207",
		"1 Main St, Springfield",
		"1 Main St",
	}
	for _, input := range inputs {
		once := wizard.CombineAddress(wizard.ParseAddress(input))
		assert.Equal(t, input, once)
		// Idempotent on already-canonical strings.
		assert.Equal(t, once, wizard.CombineAddress(wizard.ParseAddress(once)))
	}
}

func TestCombineAddressSkipsEmptyParts(t *testing.T) {
	got := wizard.CombineAddress(wizard.AddressParts{City: "Springfield", Zip: "62704"})
	assert.Equal(t, "Springfield, 62704", got)
}

func TestDetermineInitialStep(t *testing.T) {
	cfg := models.DefaultFieldConfig() // address, birthdate on 2; aboutYou on 3

	tests := []struct {
		name   string
		values map[string]string
		want   int
	}{
		{"no data", map[string]string{"username": "alice"}, 1},
		{"panel 2 data", map[string]string{"address": "1 Main St"}, 2},
		{"panel 2 parts only", map[string]string{"streetAddress": "1 Main St"}, 2},
		{"panel 3 data wins", map[string]string{"address": "1 Main St", "aboutYou": "hi"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wizard.DetermineInitialStep(tt.values, cfg))
		})
	}
}

func TestDetermineInitialStepDisabledFieldIgnored(t *testing.T) {
	cfg := models.DefaultFieldConfig()
	cfg.Fields[models.FieldAboutYou] = models.FieldSetting{Enabled: false, Panel: models.PanelThree}

	got := wizard.DetermineInitialStep(map[string]string{"aboutYou": "hi"}, cfg)
	assert.Equal(t, 1, got)
}
