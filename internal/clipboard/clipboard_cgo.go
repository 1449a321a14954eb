//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

type designClipboard struct{}

func newBackend() (backend, error) {
	if !hasDisplay() {
		return nil, ErrNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return designClipboard{}, nil
}

func (designClipboard) readImage() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (designClipboard) readText() ([]byte, error) {
	return clipboard.Read(clipboard.FmtText), nil
}

func (designClipboard) writeImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (designClipboard) writeText(data []byte) error {
	clipboard.Write(clipboard.FmtText, data)
	return nil
}
