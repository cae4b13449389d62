package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"path"

	"github.com/projeto-canaa/cadastro/pkg/blob"
)

// ErrNotFound is returned by Open for names that are not stored.
var ErrNotFound = errors.New("documento não encontrado")

// Result lists what Save did with each upload, in submission order.
type Result struct {
	Stored  []string
	Skipped []string
}

// Intake persists uploaded supporting documents in a blob store.
type Intake struct {
	store  blob.Store
	logger *slog.Logger
}

func NewIntake(store blob.Store, logger *slog.Logger) *Intake {
	if logger == nil {
		logger = slog.Default()
	}
	return &Intake{store: store, logger: logger}
}

// Store returns the underlying blob store.
func (in *Intake) Store() blob.Store {
	return in.store
}

// StoredName is the name an upload is kept under for the given protocol.
func StoredName(protocolo, original string) string {
	return SecureFilename(protocolo + "_" + original)
}

func contentType(fh *multipart.FileHeader, name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Save stores every file with an allowed extension and skips the rest. If a
// write fails, files already stored by this call are removed.
func (in *Intake) Save(ctx context.Context, protocolo string, files []*multipart.FileHeader) (Result, error) {
	res := Result{Stored: []string{}}
	for _, fh := range files {
		if fh == nil || fh.Filename == "" || !Allowed(fh.Filename) {
			if fh != nil {
				res.Skipped = append(res.Skipped, fh.Filename)
			}
			continue
		}

		name := StoredName(protocolo, fh.Filename)
		if err := in.put(ctx, name, protocolo, fh); err != nil {
			in.Remove(ctx, res.Stored)
			return Result{}, fmt.Errorf("salvando documento %s: %w", fh.Filename, err)
		}
		res.Stored = append(res.Stored, name)
	}
	return res, nil
}

func (in *Intake) put(ctx context.Context, name, protocolo string, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = in.store.Put(ctx, name, f, blob.PutOptions{
		ContentType: contentType(fh, name),
		Metadata:    map[string]string{"protocolo": protocolo},
	})
	return err
}

// Open returns a stored document. Names that SecureFilename would alter are
// never looked up.
func (in *Intake) Open(ctx context.Context, name string) (blob.Info, io.ReadCloser, error) {
	if name == "" || SecureFilename(name) != name {
		return blob.Info{}, nil, ErrNotFound
	}
	info, rc, err := in.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return blob.Info{}, nil, ErrNotFound
		}
		return blob.Info{}, nil, err
	}
	if info.ContentType == "" {
		info.ContentType = mime.TypeByExtension(path.Ext(name))
	}
	return info, rc, nil
}

// Remove deletes stored documents, logging failures. It is used to clean up
// after a registration that could not be committed.
func (in *Intake) Remove(ctx context.Context, names []string) {
	for _, name := range names {
		if _, err := in.store.Delete(ctx, name); err != nil {
			in.logger.WarnContext(ctx, "failed to remove document", "name", name, "error", err)
		}
	}
}
