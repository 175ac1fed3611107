package wizard

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
)

var birthdateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateBirthdate checks a YYYY-MM-DD birthdate. The parsed date must
// echo the input exactly (rejecting overflowed dates like 2023-02-30) and
// must not be after today.
func ValidateBirthdate(s string) error {
	if s == "" {
		return errors.New("Birthdate is required.")
	}
	if !birthdateFormat.MatchString(s) {
		return errors.New("Birthdate must be in YYYY-MM-DD format.")
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil || d.Format("2006-01-02") != s {
		return errors.New("Invalid date. Please check month and day values.")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.After(today) {
		return errors.New("Birthdate cannot be in the future.")
	}
	return nil
}

// AddressParts is the decomposed form of a combined address string.
type AddressParts struct {
	Street string
	City   string
	State  string
	Zip    string
}

// ParseAddress splits a combined address on commas into street, city and a
// trailing "state zip" segment. The last whitespace token of the third
// segment is the zip, everything before it the state. Missing segments
// leave the corresponding parts empty. Best effort only: the parse is not
// guaranteed to invert CombineAddress for free-form input.
func ParseAddress(s string) AddressParts {
	var p AddressParts
	segs := strings.SplitN(s, ",", 3)
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}
	if len(segs) >= 1 {
		p.Street = segs[0]
	}
	if len(segs) >= 2 {
		p.City = segs[1]
	}
	if len(segs) >= 3 {
		tokens := strings.Fields(segs[2])
		if len(tokens) > 0 {
			p.Zip = tokens[len(tokens)-1]
			p.State = strings.Join(tokens[:len(tokens)-1], " ")
		}
	}
	return p
}

// CombineAddress joins non-empty parts as "street, city, state zip",
// omitting empty components and their separators.
func CombineAddress(p AddressParts) string {
	var segs []string
	if p.Street != "" {
		segs = append(segs, p.Street)
	}
	if p.City != "" {
		segs = append(segs, p.City)
	}
	stateZip := strings.TrimSpace(p.State + " " + p.Zip)
	if stateZip != "" {
		segs = append(segs, stateZip)
	}
	return strings.Join(segs, ", ")
}

// DetermineInitialStep infers the resume step from saved data: 3 if any
// enabled panel-3 field holds a value, else 2 likewise, else 1.
func DetermineInitialStep(values map[string]string, cfg models.FieldConfig) int {
	for _, panel := range []int{models.PanelThree, models.PanelTwo} {
		for _, field := range cfg.EnabledOnPanel(panel) {
			if strings.TrimSpace(fieldValue(values, field)) != "" {
				return panel
			}
		}
	}
	return StepLogin
}

// fieldValue reads the saved value for a configurable field, recombining
// address parts when the combined string is absent.
func fieldValue(values map[string]string, field string) string {
	switch field {
	case models.FieldAddress:
		if v := values[keyAddress]; v != "" {
			return v
		}
		return CombineAddress(AddressParts{
			Street: values[keyStreetAddress],
			City:   values[keyCity],
			State:  values[keyState],
			Zip:    values[keyZipCode],
		})
	case models.FieldBirthdate:
		return values[keyBirthdate]
	case models.FieldAboutYou:
		return values[keyAboutYou]
	}
	return ""
}
