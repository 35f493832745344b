// SPDX-License-Identifier: Unlicense OR MIT

// Command glinfo acquires a headless GPU context and prints the selected
// device, configuration and GL strings. With -o it also clears an
// offscreen framebuffer and writes it to a PNG file.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/headlessgl/headless/gl"
	"github.com/headlessgl/headless/headless"
)

var (
	configFile = flag.String("config", "", "TOML configuration file")
	device     = flag.Int("device", 0, "device index")
	output     = flag.String("o", "", "write an offscreen render to this PNG file")
	size       = flag.String("size", "256x256", "offscreen size (WxH)")
	clearColor = flag.String("color", "0.8,0.2,0.2,1", "offscreen clear color (r,g,b,a)")
	extensions = flag.Bool("ext", false, "list GL extensions")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "glinfo: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.applyFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "glinfo: %v\n", err)
		os.Exit(2)
	}
	if err := run(os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "glinfo: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, cfg *config) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	headless.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, err := headless.New(cfg.options()...)
	if err != nil {
		return err
	}
	defer ctx.Release()

	info := ctx.Info()
	fmt.Fprintf(w, "Device:      %s\n", info.Device)
	fmt.Fprintf(w, "Vendor:      %s\n", info.Vendor)
	fmt.Fprintf(w, "Client API:  %s\n", info.API)
	fmt.Fprintf(w, "Samples:     %d\n", info.Samples)
	fmt.Fprintf(w, "GL_VERSION:  %s\n", ctx.GetString(gl.VERSION))
	fmt.Fprintf(w, "GL_RENDERER: %s\n", ctx.GetString(gl.RENDERER))
	fmt.Fprintf(w, "GL_VENDOR:   %s\n", ctx.GetString(gl.VENDOR))
	fmt.Fprintf(w, "GLSL:        %s\n", ctx.GetString(gl.SHADING_LANGUAGE_VERSION))
	fmt.Fprintf(w, "Max texture: %d\n", ctx.GetInteger(gl.MAX_TEXTURE_SIZE))
	if cfg.Extensions {
		for _, ext := range ctx.Extensions() {
			fmt.Fprintf(w, "  %s\n", ext)
		}
	}
	if cfg.Output == "" {
		return nil
	}
	return render(ctx, cfg)
}

func render(ctx *headless.Context, cfg *config) error {
	off, err := gl.NewOffscreen(ctx.Functions, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer off.Release()
	c := cfg.Color
	ctx.ClearColor(c[0], c[1], c[2], c[3])
	ctx.Clear(gl.COLOR_BUFFER_BIT)
	img, err := off.Screenshot()
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
