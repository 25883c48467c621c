// Command curve is a CLI tool for working with periodic curve schemes.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ha1tch/curve-toolkit/pkg/editor"
	"github.com/ha1tch/curve-toolkit/pkg/render"
	"github.com/ha1tch/curve-toolkit/pkg/scheme"
	"github.com/ha1tch/curve-toolkit/pkg/spline"
)

const usage = `curve - periodic curve toolkit

Usage:
  curve <command> [scheme.json] [options]

Commands:
  convert    Re-emit a scheme as JSON
  info       Show scheme information
  move       Move one point and save the scheme
  path       Print the SVG path of each channel
  render     Render a scheme to SVG and/or PNG

Without a scheme file the built-in red, green and blue scheme is used.

Global options:
  --config <file.yaml>   canvas size, value scale, axis rule, log level
  --log-level <level>    debug, info, warn or error

Examples:
  curve info colours.json
  curve path colours.json -c Red
  curve render colours.json -o colours.svg -o colours.png
  curve move colours.json -c Green -i 3 -dx 0 -dy -40
  curve convert colours.json -o tidy.json --pretty

Use "curve <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "convert":
		cmdConvert(args)
	case "info":
		cmdInfo(args)
	case "move":
		cmdMove(args)
	case "path":
		cmdPath(args)
	case "render":
		cmdRender(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// env is the state shared by every command: the parsed config, the logger
// and the scheme named on the command line.
type env struct {
	cfg    editor.Config
	log    *slog.Logger
	input  string
	scheme *scheme.Scheme
	args   []string // remaining command options
}

// setup strips the global options from args, loads config and scheme, and
// returns what is left for the command to parse.
func setup(args []string) *env {
	var configPath, level string
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "--log-level":
			if i+1 < len(args) {
				level = args[i+1]
				i++
			}
		default:
			rest = append(rest, args[i])
		}
	}

	cfg, err := editor.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if level != "" {
		cfg.LogLevel = level
	}
	logger, err := editor.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	e := &env{cfg: cfg, log: logger}
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		e.input = rest[0]
		rest = rest[1:]
	}
	e.args = rest

	e.scheme, err = scheme.Load(e.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", e.input, err)
		os.Exit(1)
	}
	logger.Debug("scheme loaded", "file", e.input, "channels", len(e.scheme.Channels))
	return e
}

func (e *env) session() *editor.Session {
	return editor.New(e.scheme, e.cfg, editor.WithLogger(e.log))
}

// channelIndex resolves a channel given by name or by position.
func channelIndex(s *scheme.Scheme, arg string) (int, error) {
	if i := s.Index(arg); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(arg); err == nil && i >= 0 && i < len(s.Channels) {
		return i, nil
	}
	return -1, fmt.Errorf("no channel %q", arg)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func cmdInfo(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: curve info [scheme.json]")
		return
	}
	e := setup(args)
	s := e.scheme

	name := s.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("Name:        %s\n", name)
	fmt.Printf("Channels:    %d\n", len(s.Channels))
	fmt.Printf("Canvas:      %gx%g\n", e.cfg.SizeX, e.cfg.SizeY)
	fmt.Printf("Values:      x 0..%g, y 0..%g\n", e.cfg.XScale, e.cfg.YScale)
	fmt.Printf("Axis rule:   %s\n", e.cfg.AxisRule)
	fmt.Println()

	for _, c := range s.Channels {
		minX, maxX := math.Inf(1), math.Inf(-1)
		minY, maxY := math.Inf(1), math.Inf(-1)
		for _, p := range c.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		class := c.Class
		if class == "" {
			class = "-"
		}
		fmt.Printf("  %-12s %-8s %3d points  x %g..%g  y %g..%g\n",
			c.Name, class, len(c.Points), minX, maxX, minY, maxY)
	}
}

func cmdPath(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: curve path [scheme.json] [-c channel] [-p precision] [--anchors] [--at x]")
		return
	}
	e := setup(args)

	channel := ""
	prec := 0
	anchors := false
	at := math.NaN()
	for i := 0; i < len(e.args); i++ {
		switch e.args[i] {
		case "--at":
			if i+1 < len(e.args) {
				v, err := strconv.ParseFloat(e.args[i+1], 64)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: invalid --at value %q\n", e.args[i+1])
					os.Exit(1)
				}
				at = v
				i++
			}
		case "-c", "--channel":
			if i+1 < len(e.args) {
				channel = e.args[i+1]
				i++
			}
		case "-p", "--precision":
			if i+1 < len(e.args) {
				prec, _ = strconv.Atoi(e.args[i+1])
				i++
			}
		case "--anchors":
			anchors = true
		}
	}

	sess := e.session()
	targets := make([]int, 0, len(sess.Elements()))
	if channel != "" {
		i, err := channelIndex(e.scheme, channel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		targets = append(targets, i)
	} else {
		for i := range sess.Elements() {
			targets = append(targets, i)
		}
	}

	// Label lines only for a reader; piped output is one path per line.
	labelled := isTerminal(os.Stdout)
	for _, i := range targets {
		el := sess.Element(i)
		var sb strings.Builder
		el.Path.WriteSVG(&sb, prec)
		if labelled {
			fmt.Printf("%s: %s\n", e.scheme.Channels[i].Name, sb.String())
		} else {
			fmt.Println(sb.String())
		}
		if anchors {
			strs := make([]string, len(el.Points))
			for j, p := range el.Points {
				strs[j] = p.String()
			}
			fmt.Printf("  anchors: %s\n", strings.Join(strs, " "))
		}
		if !math.IsNaN(at) {
			if y, ok := el.Path.SampleAt(at); ok {
				fmt.Printf("  y(%g) = %.2f\n", at, y)
			} else {
				fmt.Printf("  y(%g) = none\n", at)
			}
		}
	}
}

func cmdRender(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: curve render [scheme.json] -o out.svg|out.png [-o ...] [-t title] [-w width] [-H height] [-c channel]")
		return
	}
	e := setup(args)

	var outputs []string
	var title, channel string
	var width, height int
	for i := 0; i < len(e.args); i++ {
		switch e.args[i] {
		case "-o", "--output":
			if i+1 < len(e.args) {
				outputs = append(outputs, e.args[i+1])
				i++
			}
		case "-t", "--title":
			if i+1 < len(e.args) {
				title = e.args[i+1]
				i++
			}
		case "-w", "--width":
			if i+1 < len(e.args) {
				width, _ = strconv.Atoi(e.args[i+1])
				i++
			}
		case "-H", "--height":
			if i+1 < len(e.args) {
				height, _ = strconv.Atoi(e.args[i+1])
				i++
			}
		case "-c", "--channel":
			if i+1 < len(e.args) {
				channel = e.args[i+1]
				i++
			}
		}
	}

	if len(outputs) == 0 {
		base := "default"
		if e.input != "" {
			base = strings.TrimSuffix(e.input, filepath.Ext(e.input))
		}
		outputs = []string{base + ".svg"}
	}
	if title == "" {
		title = e.scheme.Name
	}

	sess := e.session()
	if channel != "" {
		i, err := channelIndex(e.scheme, channel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sess.Select(i)
	}

	if err := renderFiles(context.Background(), sess, outputs, title, width, height, e.log); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}
	for _, out := range outputs {
		fmt.Printf("Written: %s\n", out)
	}
}

// renderFiles writes every output concurrently. sess must not be modified
// until it returns.
func renderFiles(ctx context.Context, sess *editor.Session, outputs []string, title string, width, height int, log *slog.Logger) error {
	for _, out := range outputs {
		switch ext := strings.ToLower(filepath.Ext(out)); ext {
		case ".svg", ".png":
		default:
			return fmt.Errorf("unknown output format %q", ext)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, out := range outputs {
		out := out
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := renderFile(sess, out, title, width, height); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}
			log.Debug("rendered", "file", out)
			return nil
		})
	}
	return g.Wait()
}

func renderFile(sess *editor.Session, out, title string, width, height int) error {
	if strings.ToLower(filepath.Ext(out)) == ".svg" {
		opts := render.DefaultSVGOptions()
		opts.Title = title
		return os.WriteFile(out, []byte(render.SVG(sess, opts)), 0644)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	opts := render.DefaultPNGOptions()
	opts.Title = title
	opts.Width = width
	opts.Height = height
	if err := render.PNG(sess, f, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdMove(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: curve move [scheme.json] -c channel -i index -dx N -dy N [-o output] [--pretty]")
		return
	}
	e := setup(args)

	var channel, output string
	idx := -1
	var dx, dy float64
	pretty := false
	for i := 0; i < len(e.args); i++ {
		switch e.args[i] {
		case "-c", "--channel":
			if i+1 < len(e.args) {
				channel = e.args[i+1]
				i++
			}
		case "-i", "--index":
			if i+1 < len(e.args) {
				idx, _ = strconv.Atoi(e.args[i+1])
				i++
			}
		case "-dx":
			if i+1 < len(e.args) {
				dx, _ = strconv.ParseFloat(e.args[i+1], 64)
				i++
			}
		case "-dy":
			if i+1 < len(e.args) {
				dy, _ = strconv.ParseFloat(e.args[i+1], 64)
				i++
			}
		case "-o", "--output":
			if i+1 < len(e.args) {
				output = e.args[i+1]
				i++
			}
		case "--pretty":
			pretty = true
		}
	}

	ch, err := channelIndex(e.scheme, channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if n := len(e.scheme.Channels[ch].Points); idx < 0 || idx >= n {
		fmt.Fprintf(os.Stderr, "Error: point index %d out of range [0,%d)\n", idx, n)
		os.Exit(1)
	}

	sess := e.session()
	from := e.scheme.Channels[ch].Points[idx]
	pos := sess.MoveBy(ch, idx, spline.Pt(dx, dy))
	to := sess.Scheme().Channels[ch].Points[idx]
	e.log.Info("point moved", "channel", e.scheme.Channels[ch].Name, "index", idx,
		"from", from, "to", to, "render", pos)

	if output == "" {
		output = e.input
	}
	if output == "" {
		data, err := scheme.ToJSON(sess.Scheme(), pretty || isTerminal(os.Stdout))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	if err := scheme.WriteFile(output, sess.Scheme(), pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Moved %s[%d] %v -> %v\n", e.scheme.Channels[ch].Name, idx, from, to)
	fmt.Printf("Written: %s\n", output)
}

func cmdConvert(args []string) {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		fmt.Println("Usage: curve convert [scheme.json] [-o output] [--pretty] [--sort]")
		return
	}
	e := setup(args)

	var output string
	pretty := false
	sortPoints := false
	for i := 0; i < len(e.args); i++ {
		switch e.args[i] {
		case "-o", "--output":
			if i+1 < len(e.args) {
				output = e.args[i+1]
				i++
			}
		case "--pretty":
			pretty = true
		case "--sort":
			sortPoints = true
		}
	}

	if sortPoints {
		for i := range e.scheme.Channels {
			e.scheme.Channels[i].SortPoints()
		}
	}

	if output == "" {
		data, err := scheme.ToJSON(e.scheme, pretty || isTerminal(os.Stdout))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if err := scheme.WriteFile(output, e.scheme, pretty); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}
