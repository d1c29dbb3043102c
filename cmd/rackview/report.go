package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/powerhive/rackview/internal/netutil"
	"github.com/powerhive/rackview/pkg/display"
	"github.com/powerhive/rackview/pkg/miner"
)

func runRacks(a *App, args []string) error {
	cans, err := a.loadSite(args)
	if err != nil {
		return err
	}
	fmt.Print(renderSite(cans, nil, a.cfg.HashrateUnit, false))
	return nil
}

func runShow(a *App, payloadPath string, args []string) error {
	data, err := os.ReadFile(payloadPath)
	if err != nil {
		return fmt.Errorf("read telemetry: %w", err)
	}
	reported, err := miner.ParseMiners(data)
	if err != nil {
		return fmt.Errorf("parse telemetry: %w", err)
	}

	cans, err := a.loadSite(args)
	if err != nil {
		return err
	}
	catalog, err := a.cfg.ErrorCatalog()
	if err != nil {
		return err
	}

	unplaced := merge(cans, reported)
	for _, m := range unplaced {
		a.log.Warn("miner not in sitemap", "ip", m.IP)
	}

	fmt.Print(renderSite(cans, catalog, a.cfg.HashrateUnit, true))
	if len(unplaced) > 0 {
		fmt.Printf("\nNot in sitemap: %d\n", len(unplaced))
		for _, m := range unplaced {
			fmt.Println(renderMiner(m, catalog, a.cfg.HashrateUnit))
		}
	}
	return nil
}

// merge applies reported miners to the site by ip and returns the ones that
// have no slot, in address order.
func merge(cans []miner.Can, reported []miner.Miner) []miner.Miner {
	var unplaced []miner.Miner
	for _, m := range reported {
		placed := false
		for i := range cans {
			if cans[i].Update(m) {
				placed = true
				break
			}
		}
		if !placed {
			unplaced = append(unplaced, m)
		}
	}
	slices.SortFunc(unplaced, func(a, b miner.Miner) int {
		return netutil.Compare(a.IP, b.IP)
	})
	return unplaced
}

func renderSite(cans []miner.Can, catalog *miner.ErrorCatalog, unit string, detail bool) string {
	var sb strings.Builder
	for _, c := range cans {
		s := c.Summary()
		fmt.Fprintf(&sb, "%s (can %d)  %s\n", c.Name, c.Num, renderSummary(s, unit))
		sb.WriteString(strings.Repeat("=", 60) + "\n")
		for _, r := range c.Racks {
			fmt.Fprintf(&sb, "  Rack %s  width %d  %s\n", r.Name, r.Width, renderSummary(r.Summary(), unit))
			for i, shelf := range r.Miners {
				if !detail {
					ips := make([]string, len(shelf))
					for j, m := range shelf {
						ips[j] = m.IP
					}
					fmt.Fprintf(&sb, "    %2d | %s\n", i, strings.Join(ips, "  "))
					continue
				}
				for _, m := range shelf {
					fmt.Fprintf(&sb, "    %2d | %s\n", i, renderMiner(m, catalog, unit))
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderSummary(s miner.Summary, unit string) string {
	parts := []string{
		fmt.Sprintf("miners %d/%d", s.Reporting, s.Miners),
		"hashrate " + display.FormatHashrate(s.Hashrate, unit),
		"power " + watts(s.Power),
		"max " + display.FormatOpt(s.MaxTemp, display.FormatTemp),
	}
	if s.Sleeping > 0 {
		parts = append(parts, fmt.Sprintf("sleeping %d", s.Sleeping))
	}
	if s.WithErrors > 0 {
		parts = append(parts, fmt.Sprintf("errors %d", s.WithErrors))
	}
	return strings.Join(parts, "  ")
}

func renderMiner(m miner.Miner, catalog *miner.ErrorCatalog, unit string) string {
	hashrate := display.FormatOpt(m.Hashrate, func(v float64) string {
		return display.FormatHashrate(v, unit)
	})
	profile := display.Placeholder
	if p, ok := m.Profile.Get(); ok {
		if label := display.PrettyProfile(p); label != "" {
			profile = label
		}
	}

	line := fmt.Sprintf("%-15s %-9s %12s %8s %8s %-22s %s",
		m.IP,
		m.Status(),
		hashrate,
		display.FormatOpt(m.Temp, display.FormatTemp),
		display.FormatOpt(m.Power, watts),
		profile,
		display.FormatOpt(m.Uptime, display.FormatUptime),
	)
	if errs := miner.Diagnose(m, catalog); len(errs) > 0 {
		line += "  [" + strings.Join(errs, "; ") + "]"
	}
	return line
}

func watts(w float64) string {
	return strconv.FormatFloat(display.Round(w, 0), 'f', -1, 64) + " W"
}
