package testutil

import (
	"log/slog"
	"sync"
	"testing"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("picks loaded", slog.String("source", "a.csv"))
		logger.Error("load failed", slog.Int("code", 503))

		if got := len(handler.GetRecords()); got != 2 {
			t.Fatalf("expected 2 records, got %d", got)
		}
		if !handler.ContainsAttr("source", "a.csv") {
			t.Error("expected source=a.csv")
		}
		if !handler.ContainsAttr("code", int64(503)) {
			t.Error("expected code=503")
		}
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		if got := len(handler.GetRecordsByLevel(slog.LevelInfo)); got != 1 {
			t.Errorf("expected 1 info record, got %d", got)
		}
		if got := len(handler.GetRecordsByLevel(slog.LevelDebug)); got != 1 {
			t.Errorf("expected 1 debug record, got %d", got)
		}
	})

	t.Run("keeps With attributes", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "picks_loader")).Info("picks loaded")
		logger.Info("no component")

		records := handler.GetRecords()
		if records[0].Attrs["component"] != "picks_loader" {
			t.Errorf("expected component on derived logger, got %v", records[0].Attrs)
		}
		if _, ok := records[1].Attrs["component"]; ok {
			t.Error("parent logger must not inherit component")
		}
	})

	t.Run("prefixes grouped keys", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.WithGroup("http").Info("request", slog.Int("status", 200))
		logger.Info("inline", slog.Group("load", slog.Int("records", 4)))

		AssertLogAttr(t, handler, "http.status", int64(200))
		AssertLogAttr(t, handler, "load.records", int64(4))
	})

	t.Run("assertion helpers", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("important message", slog.String("component", "test"))

		AssertLogContains(t, handler, slog.LevelInfo, "important")
		AssertLogAttr(t, handler, "component", "test")
	})

	t.Run("thread safety", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logger.With(slog.Int("worker", n)).Info("concurrent log")
			}(i)
		}
		wg.Wait()

		if handler.Count() != 10 {
			t.Errorf("expected 10 records from concurrent logging, got %d", handler.Count())
		}
	})
}
