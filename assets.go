package main

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed assets/alarm.wav
var alarmSoundWAV []byte

//go:embed assets/icon.png
var iconPNG []byte

var resourceIconPng = fyne.NewStaticResource("icon.png", iconPNG)
