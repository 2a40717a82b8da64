//go:build !headless

// display_backend_ebiten.go - Ebiten window showing the emulated panel

package main

import (
	"context"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

func init() {
	compiledFeatures = append(compiledFeatures, "window:ebiten", "clipboard")
}

// WindowOutput renders the framebuffer in a desktop window. Present may be
// called from any goroutine; Run must be called from the main goroutine.
type WindowOutput struct {
	mu         sync.RWMutex
	rgba       []byte
	ram        [oledPages][oledWidth]byte
	panel      *ebiten.Image
	scale      int
	showStatus bool
	closed     bool

	modeRequests chan Mode

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewWindowOutput(scale int) (*WindowOutput, error) {
	if scale < 1 {
		scale = defaultWindowScale
	}
	return &WindowOutput{
		rgba:         make([]byte, oledWidth*oledHeight*4),
		scale:        scale,
		showStatus:   true,
		modeRequests: make(chan Mode, 4),
	}, nil
}

// ModeRequests delivers F1/F2/F3 presses as view mode changes.
func (w *WindowOutput) ModeRequests() <-chan Mode { return w.modeRequests }

func (w *WindowOutput) Present(fb *OLEDFramebuffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.ram = fb.Snapshot()
	fb.WriteRGBA(w.rgba, pixelOn, pixelOff)
	return nil
}

func (w *WindowOutput) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it is closed or ctx is done.
func (w *WindowOutput) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.Close()
	}()
	ebiten.SetWindowSize(oledWidth*w.scale, oledHeight*w.scale+windowStatusHeight)
	ebiten.SetWindowTitle("PSG Meter")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if err := ebiten.RunGame(w); err != nil {
		return &MeterError{Operation: "window", Details: "run", Err: err}
	}
	return nil
}

func (w *WindowOutput) Update() error {
	if ebiten.IsWindowBeingClosed() {
		w.Close()
		return ebiten.Termination
	}
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()
	if closed {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		w.mu.Lock()
		w.showStatus = !w.showStatus
		w.mu.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		w.copyToClipboard()
	}
	for key, mode := range map[ebiten.Key]Mode{
		ebiten.KeyF1: ModeBars,
		ebiten.KeyF2: ModeNotes,
		ebiten.KeyF3: ModeFalling,
	} {
		if inpututil.IsKeyJustPressed(key) {
			select {
			case w.modeRequests <- mode:
			default:
			}
		}
	}
	return nil
}

func (w *WindowOutput) copyToClipboard() {
	w.clipboardOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			logger.Warn("window: clipboard unavailable", "err", err)
			return
		}
		w.clipboardOK = true
	})
	if !w.clipboardOK {
		return
	}
	w.mu.RLock()
	ram := w.ram
	w.mu.RUnlock()
	clipboard.Write(clipboard.FmtText, []byte(brailleFromRAM(ram)))
	logger.Debug("window: frame copied to clipboard")
}

func (w *WindowOutput) Draw(screen *ebiten.Image) {
	if w.panel == nil {
		w.panel = ebiten.NewImage(oledWidth, oledHeight)
	}
	w.mu.RLock()
	w.panel.WritePixels(w.rgba)
	showStatus := w.showStatus
	w.mu.RUnlock()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.panel, op)
	if showStatus {
		line := runtimeStatus.snapshot().statusLine()
		text.Draw(screen, line, basicfont.Face7x13, 4, oledHeight*w.scale+windowStatusHeight-5, color.RGBA{0xC0, 0xC0, 0xC0, 0xFF})
	}
}

func (w *WindowOutput) Layout(_, _ int) (int, int) {
	return oledWidth * w.scale, oledHeight*w.scale + windowStatusHeight
}
