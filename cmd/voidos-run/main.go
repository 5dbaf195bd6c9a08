// Command voidos-run drives the voidos kernel simulation against a real
// window and real wall-clock time.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nullframe/voidos"
	"github.com/nullframe/voidos/kernlog"
)

func main() {
	backend := flag.String("backend", voidos.BackendEbiten, "video backend: ebiten, sdl, headless")
	scale := flag.Int("scale", 2, "integer window scale factor")
	width := flag.Int("width", 1024, "screen width in pixels")
	height := flag.Int("height", 768, "screen height in pixels")
	tty := flag.Bool("tty", false, "also bridge the host terminal's stdin as a keyboard source")
	flag.Parse()

	video, err := voidos.NewVideoOutput(*backend, *width, *height, voidos.PixelFormatRGBX8, *scale)
	if err != nil {
		fmt.Printf("voidos-run: failed to initialize video backend %q: %v\n", *backend, err)
		os.Exit(1)
	}

	kernel, err := voidos.NewKernel(video, voidos.KernelConfig{
		ScreenWidth:  *width,
		ScreenHeight: *height,
		PixelFormat:  voidos.PixelFormatRGBX8,
	})
	if err != nil {
		fmt.Printf("voidos-run: failed to boot kernel: %v\n", err)
		os.Exit(1)
	}

	if err := kernel.Boot(); err != nil {
		fmt.Printf("voidos-run: failed to start: %v\n", err)
		os.Exit(1)
	}
	kernlog.Printf(kernlog.LevelInfo, "voidos-run: running with %s backend at %dx%d (scale %d)\n", *backend, *width, *height, *scale)

	var host *voidos.HostConsole
	if *tty {
		host = voidos.NewHostConsole(kernel)
		host.Start()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	if host != nil {
		host.Stop()
	}
	kernel.Shutdown()
}
