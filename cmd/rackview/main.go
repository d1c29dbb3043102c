package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/powerhive/rackview/internal/config"
	"github.com/powerhive/rackview/internal/netutil"
	"github.com/powerhive/rackview/internal/state"
	"github.com/powerhive/rackview/pkg/miner"
	"github.com/powerhive/rackview/pkg/pools"
	"github.com/powerhive/rackview/pkg/sitemap"
	"github.com/powerhive/rackview/pkg/stock"
	"github.com/powerhive/rackview/pkg/vnish"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	app := newApp(cfg, logger)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "racks":
		err = runRacks(app, args)

	case "show":
		if len(args) < 1 {
			fmt.Println("Usage: rackview show <miners.json> [layout sitemap]")
			fmt.Println("Example: rackview show telemetry.json")
			os.Exit(1)
		}
		err = runShow(app, args[0], args[1:])

	case "pools":
		if len(args) < 2 {
			fmt.Println("Usage: rackview pools <miner-ip> <can> [model]")
			fmt.Println("Example: rackview pools 10.0.1.23 C01 S19j")
			os.Exit(1)
		}
		model := ""
		if len(args) > 2 {
			model = args[2]
		}
		err = runPools(app, pools.Worker{IP: args[0], Can: args[1], Model: model})

	case "settings":
		err = runSettings(app)

	case "vnish", "stock":
		if len(args) < 2 {
			fmt.Printf("Usage: rackview %s <miner-ip> <payload-dir>\n", command)
			fmt.Printf("Example: rackview %s 10.0.1.23 ./captures/10.0.1.23\n", command)
			os.Exit(1)
		}
		err = runCapture(app, command, args[0], args[1])

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error(command+" failed", "err", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("rackview - Miner rack overview")
	fmt.Println()
	fmt.Println("Usage: rackview <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  racks [layout sitemap]          Print the rack layout from the sitemap CSVs")
	fmt.Println("  show <miners.json> [layout sitemap]")
	fmt.Println("                                  Merge a telemetry payload into the racks and print it")
	fmt.Println("  pools <ip> <can> [model]        Expand the configured pool templates for a miner")
	fmt.Println("  settings                        Print the effective polling settings and known pools")
	fmt.Println("  vnish <ip> <dir>                Convert captured VNish API responses to a miner entry")
	fmt.Println("  stock <ip> <dir>                Convert captured stock firmware CGI responses to a miner entry")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  RACKVIEW_CONFIG     Config file, TOML or YAML (default: rackview.toml)")
	fmt.Println("  RACKVIEW_LAYOUT     Layout CSV (default: layout.csv)")
	fmt.Println("  RACKVIEW_SITEMAP    Sitemap CSV (default: sitemap.csv)")
	fmt.Println("  RACKVIEW_LOG_LEVEL  debug, info, warn or error (default: info)")
	fmt.Println("  HASHRATE_UNIT       Unit collectors report hashrate in (default: TH/s)")
	fmt.Println("  REFRESH_RATE, MAX_CONNECTIONS, CONNECTION_TIMEOUT, READ_TIMEOUT")
	fmt.Println("                      Polling settings in seconds / connections")
}

// App wires the configuration, logger and shared state for the commands.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	state *state.App
}

func newApp(cfg *config.Config, logger *slog.Logger) *App {
	st := state.New(cfg.Settings)
	st.SetPools(pools.Strip(cfg.Pools))

	log := logger.With("module", "state")
	st.Settings.Subscribe(func(s state.Settings) {
		log.Debug("settings",
			"refresh", s.RefreshInterval(),
			"max_connections", s.MaxConnections,
			"connect_timeout", s.ConnectTimeout(),
			"read_timeout", s.ReadDeadline(),
		)
	})

	return &App{cfg: cfg, log: logger, state: st}
}

// loadSite imports the sitemap from the given paths or the configured ones.
func (a *App) loadSite(args []string) ([]miner.Can, error) {
	layout, sm := a.cfg.LayoutPath, a.cfg.SitemapPath
	if len(args) >= 2 {
		layout, sm = args[0], args[1]
	}
	return sitemap.ImportFiles(layout, sm, a.log.With("module", "sitemap"))
}

func runSettings(a *App) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Settings state.Settings `json:"settings"`
		Pools    []miner.Pool   `json:"pools"`
	}{a.state.Settings.Get(), a.state.Pools.Get()})
}

// runCapture converts a directory of captured firmware responses into a
// miner entry, one element of the "show" payload.
func runCapture(a *App, firmware, ip, dir string) error {
	if !netutil.IsValidIP(ip) {
		return fmt.Errorf("%w: %q", netutil.ErrInvalidIP, ip)
	}

	var m miner.Miner
	switch firmware {
	case "vnish":
		p, err := vnish.LoadPayload(dir)
		if err != nil {
			return err
		}
		if err := vnish.Failure(ip, p); err != nil {
			a.log.Warn("miner in failure state", "err", err)
		}
		m = vnish.ToMiner(ip, p)
	case "stock":
		p, err := stock.LoadPayload(dir)
		if err != nil {
			return err
		}
		m = stock.ToMiner(ip, p)
	default:
		return fmt.Errorf("unknown firmware %q", firmware)
	}

	a.log.Debug("converted capture", "firmware", firmware, "ip", ip, "status", m.Status())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func runPools(a *App, w pools.Worker) error {
	expanded, err := pools.ExpandAll(a.cfg.Pools, w)
	if err != nil {
		return err
	}
	for i, p := range expanded {
		fmt.Printf("  %d. %-40s %s\n", i+1, p.URL, p.User)
	}
	return nil
}
