package main

import (
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

func setupAutostart(enable bool) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "penlet-reminders",
		DisplayName: "Penlet Reminders",
		Exec:        []string{execPath},
	}

	if enable {
		if !app.IsEnabled() {
			return app.Enable()
		}
	} else {
		if app.IsEnabled() {
			return app.Disable()
		}
	}
	return nil
}
