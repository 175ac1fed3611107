// Command wizard is a terminal front-end for the onboarding API: the
// multi-step form itself, plus admin views for the field layout and the
// stored submissions. All flow decisions live in internal/wizard; this
// binary only prompts and prints.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/2021-nbs/zealthy-exercise/internal/models"
	"github.com/2021-nbs/zealthy-exercise/internal/wizard"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "onboarding API base URL")
	draftPath := flag.String("draft", ".onboarding-draft.json", "path of the local draft file")
	list := flag.Bool("list", false, "print stored submissions and exit")
	showConfig := flag.Bool("config", false, "print the field configuration and exit")
	setConfig := flag.String("set-config", "", `update the field layout, e.g. "address=2,birthdate=off,aboutYou=3"`)
	flag.Parse()

	client := wizard.NewClient(*server)

	switch {
	case *list:
		if err := printSubmissions(client); err != nil {
			exitf("list submissions: %v", err)
		}
	case *showConfig:
		cfg, err := client.FetchConfig()
		if err != nil {
			exitf("fetch config: %v", err)
		}
		printConfig(cfg)
	case *setConfig != "":
		if err := applyConfig(client, *setConfig); err != nil {
			exitf("update config: %v", err)
		}
		fmt.Println("Configuration saved successfully.")
	default:
		if err := runWizard(client, *draftPath); err != nil {
			exitf("%v", err)
		}
	}
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runWizard(client *wizard.Client, draftPath string) error {
	wiz := wizard.New(client, wizard.NewFileDraftStore(draftPath))
	if err := wiz.Mount(); err != nil {
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome! Please start by entering your login info.")

	for {
		step := wiz.Step()
		if step == wizard.StepDone {
			fmt.Println("\nThank you! Your information has been submitted successfully.")
			fmt.Print("Type 'restart' to begin again, anything else to quit: ")
			if readLine(in) == "restart" {
				if err := wiz.Restart(); err != nil {
					return err
				}
				continue
			}
			return nil
		}

		fmt.Printf("\n-- Step %d --\n", step)
		for _, key := range wiz.StepFieldKeys(step) {
			current := wiz.Value(key)
			if current != "" {
				fmt.Printf("%s [%s]: ", wizard.FieldLabel(key), current)
			} else {
				fmt.Printf("%s: ", wizard.FieldLabel(key))
			}
			if entered := readLine(in); entered != "" {
				wiz.SetValue(key, entered)
			}
		}

		action := "next"
		if wiz.IsLastDataStep() {
			action = "submit"
		}
		fmt.Printf("Action (%s/back/quit) [%s]: ", action, action)
		switch choice := readLine(in); choice {
		case "back":
			wiz.Previous()
			continue
		case "quit":
			fmt.Println("Progress saved locally. Run again to resume.")
			return nil
		}

		var err error
		if wiz.IsLastDataStep() {
			err = wiz.Submit()
		} else {
			err = wiz.Next()
		}
		if err != nil {
			var fieldErrs wizard.FieldErrors
			if errors.As(err, &fieldErrs) {
				for _, msg := range fieldErrs {
					fmt.Println("  !", msg)
				}
				continue
			}
			fmt.Println("  ! Error saving data. Please try again:", err)
		}
	}
}

func readLine(in *bufio.Scanner) string {
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func printSubmissions(client *wizard.Client) error {
	subs, err := client.ListSubmissions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("No submissions yet.")
		return nil
	}
	for _, s := range subs {
		fmt.Printf("%s  %s  complete=%v  updated=%s\n",
			s.ID, s.Username, s.IsComplete, s.LastUpdated.Format("2006-01-02 15:04"))
		fmt.Printf("  password:  %s\n", s.Password)
		fmt.Printf("  address:   %s\n", orNotCollected(s.Address))
		birthdate := ""
		if s.Birthdate != nil {
			birthdate = *s.Birthdate
		}
		fmt.Printf("  birthdate: %s\n", orNotCollected(birthdate))
		fmt.Printf("  about you: %s\n", orNotCollected(s.AboutYou))
	}
	return nil
}

func orNotCollected(v string) string {
	if v == "" {
		return "(not collected)"
	}
	return v
}

func printConfig(cfg models.FieldConfig) {
	for _, name := range models.KnownFields() {
		f := cfg.Fields[name]
		state := "off"
		if f.Enabled {
			state = fmt.Sprintf("panel %d", f.Panel)
		}
		fmt.Printf("%-10s %s\n", name, state)
	}
}

// applyConfig merges layout changes like "address=2,birthdate=off" into the
// current configuration, re-checks the panel-coverage invariant locally the
// way the server will, and saves.
func applyConfig(client *wizard.Client, layout string) error {
	cfg, err := client.FetchConfig()
	if err != nil {
		return fmt.Errorf("fetch current config: %w", err)
	}
	if cfg.Fields == nil {
		cfg = models.DefaultFieldConfig()
	}

	for _, entry := range strings.Split(layout, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(entry), "=")
		if !ok {
			return fmt.Errorf("malformed entry %q, want field=2, field=3 or field=off", entry)
		}
		setting := cfg.Fields[name]
		switch value {
		case "off":
			setting.Enabled = false
			if setting.Panel == 0 {
				setting.Panel = models.PanelTwo
			}
		case "2":
			setting.Enabled = true
			setting.Panel = models.PanelTwo
		case "3":
			setting.Enabled = true
			setting.Panel = models.PanelThree
		default:
			return fmt.Errorf("malformed entry %q, want field=2, field=3 or field=off", entry)
		}
		cfg.Fields[name] = setting
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return client.UpdateConfig(cfg)
}
