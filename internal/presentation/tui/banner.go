package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the startup banner for the interactive shell.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	lines := []struct {
		text  string
		color string
	}{
		{`   __                       `, "#818cf8"},
		{`  / _| ___  _ __ __ _  ___  `, "#a78bfa"},
		{` | |_ / _ \| '__/ _' |/ _ \ `, "#c084fc"},
		{` |  _| (_) | | | (_| |  __/ `, "#e879f9"},
		{` |_|  \___/|_|  \__, |\___| `, "#f472b6"},
		{`                |___/       `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
