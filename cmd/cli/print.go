package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	apiv1 "github.com/SanjoDeundiak/server-launcher/api/v1"
)

var tableHeader = []string{"ID", "NAME", "KIND", "STATUS", "UPTIME", "PATH"}

func serverRow(s *apiv1.ServerState) []string {
	if s == nil || s.Config == nil {
		return []string{"", "", "", "", "", ""}
	}
	kind := s.Config.Kind
	if s.Config.Role != "" {
		kind += " (" + s.Config.Role + ")"
	}
	uptime := "--"
	if s.Uptime != nil {
		uptime = formatUptime(s.Uptime.AsDuration())
	}
	return []string{s.Config.Id, s.Config.Name, kind, s.Status, uptime, s.Config.Path}
}

func printServerTable(w io.Writer, servers ...*apiv1.ServerState) {
	rows := make([][]string, 0, len(servers))
	for _, s := range servers {
		rows = append(rows, serverRow(s))
	}

	// Determine column widths
	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = len(h)
	}
	widths[0] = maxInt(widths[0], 36)
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = maxInt(widths[i], len(cell))
		}
	}

	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}
	sep := "+-" + strings.Join(parts, "-+-") + "-+\n"

	printRow := func(cells []string) {
		padded := make([]string, len(cells))
		for i, cell := range cells {
			padded[i] = pad(cell, widths[i])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	}

	_, _ = fmt.Fprint(w, sep)
	printRow(tableHeader)
	_, _ = fmt.Fprint(w, sep)
	for _, row := range rows {
		printRow(row)
	}
	_, _ = fmt.Fprint(w, sep)
}

// printDetails prints what is known about the current or last run.
func printDetails(w io.Writer, s *apiv1.ServerState) {
	if s == nil {
		return
	}
	if s.StartedBy != "" {
		_, _ = fmt.Fprintf(w, "Started by: %s\n", s.StartedBy)
	}
	if s.StartTime != nil {
		_, _ = fmt.Fprintf(w, "Started at: %s\n", s.StartTime.AsTime().Local().Format(time.DateTime))
	}
	if s.Config != nil && s.Config.Kind == apiv1.KindJava {
		_, _ = fmt.Fprintf(w, "Memory:     %dM / %dM\n", s.Config.MinRamMb, s.Config.MaxRamMb)
	}
	if d := describeExit(s.Details); d != "" {
		_, _ = fmt.Fprintf(w, "Last run:   %s\n", d)
	}
}

// describeExit summarises runtime details, e.g. "pid 42, exit code 1 (NormalExit)".
func describeExit(d *apiv1.RuntimeDetails) string {
	if d == nil {
		return ""
	}
	var parts []string
	if d.Pid != nil {
		parts = append(parts, fmt.Sprintf("pid %d", *d.Pid))
	}
	if d.ExitCode != nil {
		exit := fmt.Sprintf("exit code %d", *d.ExitCode)
		if d.ExitStatusName != nil {
			exit += " (" + *d.ExitStatusName + ")"
		}
		parts = append(parts, exit)
	}
	if d.ProcessErrorName != nil {
		parts = append(parts, "error "+*d.ProcessErrorName)
	}
	return strings.Join(parts, ", ")
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
