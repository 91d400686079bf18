package writer

import (
	"context"
	"fmt"
	"log"

	"reschool-widgets/config"
	"reschool-widgets/db"
	"reschool-widgets/retrieval"
	"reschool-widgets/widget"
)

// CodeInvalidArgs marks a request that is missing a required field.
const CodeInvalidArgs = "INVALID_ARGS"

// RequestError is returned to the application when a request is malformed.
type RequestError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *RequestError) Error() string {
	return e.Code + ": " + e.Message
}

// SaveRequest asks for Data to be stored under Key. Pointers distinguish a
// missing field from an empty one.
type SaveRequest struct {
	Key  *string `json:"key"`
	Data *string `json:"data"`
}

// ReloadRequest asks for one widget kind to refresh.
type ReloadRequest struct {
	Kind *string `json:"kind"`
}

// Writer stores snapshots on behalf of the application and signals the
// widgets afterwards.
type Writer struct {
	Store    db.Store
	Mirror   *db.FileStore // Optional file copy readable by the desktop fallbacks
	Notifier Notifier
}

// New builds a Writer. The mirror directory is the group container when one
// is configured, otherwise application support.
func New(cfg *config.Config, store db.Store, notifier Notifier) *Writer {
	w := &Writer{Store: store, Notifier: notifier}
	switch {
	case cfg.GroupDir != "":
		w.Mirror = db.NewFileStore(retrieval.SharedDataDir(cfg.GroupDir))
	case cfg.AppSupportDir != "":
		w.Mirror = db.NewFileStore(retrieval.AppSupportDataDir(cfg.AppSupportDir))
		log.Printf("[Widget] Using fallback directory: %s", w.Mirror.Dir)
	}
	if w.Notifier == nil {
		w.Notifier = LogNotifier{}
	}
	return w
}

// Save writes the data verbatim. Only a failure of the shared store is an
// error; the file mirror is best effort.
func (w *Writer) Save(ctx context.Context, req SaveRequest) error {
	if req.Key == nil || *req.Key == "" || req.Data == nil {
		return &RequestError{Code: CodeInvalidArgs, Message: "Missing key or data"}
	}
	key, data := *req.Key, *req.Data

	if err := w.Store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save widget data for %s: %w", key, err)
	}
	log.Printf("[Widget] Saved to shared store for key: %s, length: %d", key, len(data))

	if w.Mirror != nil {
		if err := w.Mirror.Set(ctx, key, data); err != nil {
			log.Printf("[Widget] ERROR saving to file: %v", err)
		} else if path, err := w.Mirror.Path(key); err == nil {
			log.Printf("[Widget] Saved to file: %s", path)
		}
	}
	return nil
}

// ReloadAll signals every widget.
func (w *Writer) ReloadAll(ctx context.Context) error {
	return w.Notifier.ReloadAll(ctx)
}

// Reload signals a single widget kind.
func (w *Writer) Reload(ctx context.Context, req ReloadRequest) error {
	if req.Kind == nil || *req.Kind == "" {
		return &RequestError{Code: CodeInvalidArgs, Message: "Missing kind"}
	}
	kind, err := widget.ParseKind(*req.Kind)
	if err != nil {
		return &RequestError{Code: CodeInvalidArgs, Message: err.Error()}
	}
	return w.Notifier.Reload(ctx, kind)
}
