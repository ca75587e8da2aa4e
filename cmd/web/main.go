package main

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"pickchart/internal/app"
)

// Embedded chart page
//
//go:embed all:frontend/*
var frontendFiles embed.FS

// frontend returns the embedded files rooted at the frontend directory
func frontend() (fs.FS, error) {
	return fs.Sub(frontendFiles, "frontend")
}

func main() {
	frontendFS, err := frontend()
	if err != nil {
		slog.Warn("Frontend embedding failed, serving API only", slog.String("error", err.Error()))
		frontendFS = nil
	}

	application, err := app.NewApplication(frontendFS)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
