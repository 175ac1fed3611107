package wizard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
)

// Wizard steps. Steps 2 and 3 are the configurable panels and are entered
// only when at least one enabled field is assigned to them; 1 and 4 are
// fixed.
const (
	StepLogin      = 1
	StepPanelTwo   = 2
	StepPanelThree = 3
	StepDone       = 4
)

// FieldErrors maps a value key to its validation message. It satisfies
// error so step transitions can return it directly.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e[k])
	}
	return strings.Join(msgs, " ")
}

var fieldLabels = map[string]string{
	keyUsername:      "Username",
	keyPassword:      "Password",
	keyAddress:       "Address",
	keyStreetAddress: "Street Address",
	keyCity:          "City",
	keyState:         "State",
	keyZipCode:       "Zip Code",
	keyBirthdate:     "Birthdate",
	keyAboutYou:      "Tell us about yourself",
}

// FieldLabel returns the display label for a value key.
func FieldLabel(key string) string {
	if label, ok := fieldLabels[key]; ok {
		return label
	}
	return key
}

// Wizard drives the multi-step onboarding flow: it tracks the current
// step and draft values, persists progress through the backend, and
// consults the field configuration to decide which panels exist.
type Wizard struct {
	backend Backend
	drafts  DraftStore
	cfg     models.FieldConfig
	draft   Draft
}

func New(backend Backend, drafts DraftStore) *Wizard {
	return &Wizard{
		backend: backend,
		drafts:  drafts,
		draft:   Draft{Step: StepLogin, Values: map[string]string{}},
	}
}

// Mount loads the field configuration and restores prior progress: a
// non-empty local draft wins outright; otherwise a remembered submission
// is fetched, provided its resume token is still valid, the username
// matches, and the row is not already complete. The starting step is the
// locally remembered one when still valid for the current configuration,
// else inferred from whatever data was restored. Mount never lands on the
// terminal step.
func (w *Wizard) Mount() error {
	cfg, err := w.backend.FetchConfig()
	if err != nil {
		return fmt.Errorf("fetch form config: %w", err)
	}
	w.cfg = cfg

	d, err := w.drafts.Load()
	if err != nil {
		d = Draft{} // unreadable draft treated as absent
	}
	if d.Values == nil {
		d.Values = map[string]string{}
	}
	w.draft = d

	if len(d.Values) == 0 && d.SubmissionID != "" && d.Username != "" {
		if !resumeTokenUsable(d.ResumeToken, d.Username) {
			w.forgetRemembered()
		} else if remote, err := w.backend.FetchSubmission(d.SubmissionID); err != nil {
			w.forgetRemembered()
		} else if remote.Username != d.Username || remote.IsComplete {
			w.forgetRemembered()
		} else {
			w.hydrate(remote)
		}
	}

	step := w.draft.Step
	if !w.stepValid(step) {
		step = DetermineInitialStep(w.draft.Values, w.cfg)
	}
	w.draft.Step = step
	return nil
}

// Next validates the current step's enabled fields, persists progress with
// the submission left incomplete, and advances to the next step that has
// at least one enabled field. On any failure the wizard stays where it is.
// On the last step with enabled fields there is nothing further to advance
// to, so the action becomes Submit.
func (w *Wizard) Next() error {
	if w.IsLastDataStep() {
		return w.Submit()
	}
	if errs := w.validateStep(w.draft.Step); len(errs) > 0 {
		return errs
	}
	if err := w.persist(false); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	w.draft.Step = w.nextEnabledStep(w.draft.Step)
	return w.drafts.Save(w.draft)
}

// Previous moves to the nearest lower step with enabled fields, never
// below the login step. No validation, no persistence.
func (w *Wizard) Previous() {
	for s := w.draft.Step - 1; s >= StepLogin; s-- {
		if s == StepLogin || w.stepValid(s) {
			w.draft.Step = s
			break
		}
	}
	_ = w.drafts.Save(w.draft)
}

// Submit validates every active data step, persists with the completion
// flag set, and clears all local draft state. When a validation error
// belongs to another step the wizard navigates there instead.
func (w *Wizard) Submit() error {
	all := FieldErrors{}
	firstBad := 0
	for s := StepLogin; s <= StepPanelThree; s++ {
		if s != StepLogin && !w.stepValid(s) {
			continue
		}
		if errs := w.validateStep(s); len(errs) > 0 {
			for k, v := range errs {
				all[k] = v
			}
			if firstBad == 0 {
				firstBad = s
			}
		}
	}
	if len(all) > 0 {
		if firstBad != w.draft.Step {
			w.draft.Step = firstBad
			_ = w.drafts.Save(w.draft)
		}
		return all
	}

	if err := w.persist(true); err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	if err := w.drafts.Clear(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	w.draft = Draft{Step: StepDone, Values: map[string]string{}}
	return nil
}

// Restart discards all local state, forgets the remembered submission and
// returns to the login step.
func (w *Wizard) Restart() error {
	if err := w.drafts.Clear(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	w.draft = Draft{Step: StepLogin, Values: map[string]string{}}
	return nil
}

func (w *Wizard) Step() int { return w.draft.Step }

func (w *Wizard) Config() models.FieldConfig { return w.cfg }

func (w *Wizard) SubmissionID() string { return w.draft.SubmissionID }

func (w *Wizard) Value(key string) string { return w.draft.Values[key] }

func (w *Wizard) SetValue(key, value string) {
	w.draft.Values[key] = value
}

// IsLastDataStep reports whether the current step is the final one with
// enabled fields, i.e. whether its action is Submit rather than Next.
func (w *Wizard) IsLastDataStep() bool {
	return w.draft.Step == w.lastDataStep()
}

// StepFieldKeys returns the value keys the given step collects, with the
// address field expanded into its parts.
func (w *Wizard) StepFieldKeys(step int) []string {
	if step == StepLogin {
		return []string{keyUsername, keyPassword}
	}
	var keys []string
	for _, field := range w.cfg.EnabledOnPanel(step) {
		switch field {
		case models.FieldAddress:
			keys = append(keys, keyStreetAddress, keyCity, keyState, keyZipCode)
		case models.FieldBirthdate:
			keys = append(keys, keyBirthdate)
		case models.FieldAboutYou:
			keys = append(keys, keyAboutYou)
		}
	}
	return keys
}

func (w *Wizard) validateStep(step int) FieldErrors {
	errs := FieldErrors{}
	if step == StepLogin {
		requireValue(errs, w.draft.Values, keyUsername)
		requireValue(errs, w.draft.Values, keyPassword)
		return errs
	}
	for _, field := range w.cfg.EnabledOnPanel(step) {
		switch field {
		case models.FieldAddress:
			for _, key := range []string{keyStreetAddress, keyCity, keyState, keyZipCode} {
				requireValue(errs, w.draft.Values, key)
			}
		case models.FieldBirthdate:
			if err := ValidateBirthdate(w.draft.Values[keyBirthdate]); err != nil {
				errs[keyBirthdate] = err.Error()
			}
		case models.FieldAboutYou:
			requireValue(errs, w.draft.Values, keyAboutYou)
		}
	}
	return errs
}

func requireValue(errs FieldErrors, values map[string]string, key string) {
	if strings.TrimSpace(values[key]) == "" {
		errs[key] = FieldLabel(key) + " is required."
	}
}

// persist saves the draft to the server, creating the submission on the
// first successful save and updating it afterwards.
func (w *Wizard) persist(isComplete bool) error {
	in := w.buildInput(isComplete)
	if w.draft.SubmissionID == "" {
		id, token, err := w.backend.CreateSubmission(in)
		if err != nil {
			return err
		}
		w.draft.SubmissionID = id
		w.draft.ResumeToken = token
		w.draft.Username = w.draft.Values[keyUsername]
		return nil
	}
	return w.backend.UpdateSubmission(w.draft.SubmissionID, in)
}

// buildInput assembles the submission payload: credentials plus every
// enabled field. Address parts are recombined into the single stored
// string here; an edit to any part wins over a stale combined value.
func (w *Wizard) buildInput(isComplete bool) models.SubmissionInput {
	v := w.draft.Values

	in := models.SubmissionInput{
		Username:   v[keyUsername],
		Password:   v[keyPassword],
		IsComplete: isComplete,
	}
	for _, name := range models.KnownFields() {
		f, ok := w.cfg.Fields[name]
		if !ok || !f.Enabled {
			continue
		}
		switch name {
		case models.FieldAddress:
			combined := CombineAddress(AddressParts{
				Street: v[keyStreetAddress],
				City:   v[keyCity],
				State:  v[keyState],
				Zip:    v[keyZipCode],
			})
			if combined == "" {
				combined = v[keyAddress]
			}
			v[keyAddress] = combined
			in.Address = &combined
		case models.FieldBirthdate:
			if b := v[keyBirthdate]; b != "" {
				in.Birthdate = &b
			}
		case models.FieldAboutYou:
			about := v[keyAboutYou]
			in.AboutYou = &about
		}
	}
	return in
}

// hydrate fills draft values from a fetched submission, decomposing the
// stored address for the part inputs. The password is never restored.
func (w *Wizard) hydrate(remote models.MaskedSubmission) {
	v := w.draft.Values
	v[keyUsername] = remote.Username
	v[keyAddress] = remote.Address
	if remote.Birthdate != nil {
		v[keyBirthdate] = *remote.Birthdate
	}
	v[keyAboutYou] = remote.AboutYou

	if remote.Address != "" {
		parts := ParseAddress(remote.Address)
		v[keyStreetAddress] = parts.Street
		v[keyCity] = parts.City
		v[keyState] = parts.State
		v[keyZipCode] = parts.Zip
	}
}

func (w *Wizard) forgetRemembered() {
	w.draft.SubmissionID = ""
	w.draft.Username = ""
	w.draft.ResumeToken = ""
	w.draft.Step = 0
	_ = w.drafts.Clear()
}

// stepValid reports whether a step can currently be shown: the login step
// always, a panel only when it has at least one enabled field.
func (w *Wizard) stepValid(step int) bool {
	switch step {
	case StepLogin:
		return true
	case StepPanelTwo, StepPanelThree:
		return len(w.cfg.EnabledOnPanel(step)) > 0
	default:
		return false
	}
}

func (w *Wizard) nextEnabledStep(from int) int {
	for s := from + 1; s < StepDone; s++ {
		if w.stepValid(s) {
			return s
		}
	}
	return StepDone
}

func (w *Wizard) lastDataStep() int {
	for s := StepPanelThree; s > StepLogin; s-- {
		if w.stepValid(s) {
			return s
		}
	}
	return StepLogin
}

// resumeClaims mirrors the server's resume token payload.
type resumeClaims struct {
	SubmissionID string `json:"submissionId"`
	Username     string `json:"username"`
	jwt.RegisteredClaims
}

// resumeTokenUsable checks expiry and ownership without verifying the
// signature; the server remains the trust anchor, this only decides
// whether attempting a resume is worthwhile.
func resumeTokenUsable(token, username string) bool {
	if token == "" {
		return false
	}
	claims := &resumeClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.Username != username {
		return false
	}
	return claims.ExpiresAt != nil && time.Now().Before(claims.ExpiresAt.Time)
}
