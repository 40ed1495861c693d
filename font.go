package main

import (
	"bytes"
	"log"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var hudFace text.Face
var hudFaceSource *text.GoTextFaceSource

func initFont() {
	if hudFaceSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Fatalf("failed to parse font: %v", err)
		}
		hudFaceSource = src
	}
	hudFace = &text.GoTextFace{
		Source: hudFaceSource,
		Size:   gs.HUDFontSize,
	}
}
