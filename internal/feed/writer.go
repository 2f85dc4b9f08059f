package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hndaily/internal/model"
)

type Writer struct {
	path    string
	channel Channel
}

func NewWriter(path string, channel Channel) *Writer {
	return &Writer{
		path:    path,
		channel: channel,
	}
}

// Write renders posts and replaces the feed file. The file is left untouched
// when the rendered document does not parse back.
func (w *Writer) Write(posts []model.Post, now time.Time) error {
	doc, err := Render(w.channel, posts, now)
	if err != nil {
		return err
	}

	if err := Verify(doc, len(posts)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create feed directory: %w", err)
	}

	if err := os.WriteFile(w.path, doc, 0o644); err != nil {
		return fmt.Errorf("write feed %s: %w", w.path, err)
	}

	return nil
}
