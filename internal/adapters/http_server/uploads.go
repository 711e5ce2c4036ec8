package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 10 << 20
	maxFieldBytes  = 1 << 20
	imagesField    = "images"
)

var allowedImageTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true}

var (
	errFileTooLarge  = domain.NewValidationError("File size too large. Max 10MB per file")
	errTooManyFiles  = domain.NewValidationError("Too many files. Max 10 files allowed")
	errBadImageType  = domain.NewValidationError("Only JPEG, PNG, and WebP images are allowed")
	errBadMultipart  = domain.NewValidationError("Invalid multipart form")
	errFieldTooLarge = domain.NewValidationError("Form field too large")
)

// Stager parks uploaded images in Dir until the hotel service pushes them to
// the media host.
type Stager struct{ Dir string }

// Stage streams a multipart body: text parts become form values, parts named
// "images" are checked and written to disk. On error nothing stays staged.
func (s Stager) Stage(w http.ResponseWriter, r *http.Request) (map[string]string, []domain.StagedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFiles*maxUploadBytes+maxFieldBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, errBadMultipart
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("upload dir: %w", err)
	}

	values := map[string]string{}
	var files []domain.StagedFile
	fail := func(err error) (map[string]string, []domain.StagedFile, error) {
		sweep(files)
		return nil, nil, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(errBadMultipart)
		}
		if part.FileName() == "" {
			b, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
			part.Close()
			if err != nil {
				return fail(errBadMultipart)
			}
			if len(b) > maxFieldBytes {
				return fail(errFieldTooLarge)
			}
			values[part.FormName()] = string(b)
			continue
		}
		if part.FormName() != imagesField {
			part.Close()
			continue
		}
		if len(files) == maxUploadFiles {
			part.Close()
			return fail(errTooManyFiles)
		}
		f, err := s.save(part)
		part.Close()
		if err != nil {
			return fail(err)
		}
		files = append(files, f)
	}
	return values, files, nil
}

type namedReader interface {
	io.Reader
	FileName() string
}

func (s Stager) save(part namedReader) (domain.StagedFile, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(part, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return domain.StagedFile{}, errBadMultipart
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if !allowedImageTypes[mt.String()] {
		return domain.StagedFile{}, errBadImageType
	}

	ext := strings.ToLower(filepath.Ext(part.FileName()))
	if ext == "" {
		ext = mt.Extension()
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext))
	out, err := os.Create(path)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("stage file: %w", err)
	}
	written, err := io.Copy(out, io.LimitReader(io.MultiReader(bytes.NewReader(head), part), maxUploadBytes+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > maxUploadBytes {
		err = errFileTooLarge
	}
	if err != nil {
		_ = os.Remove(path)
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return domain.StagedFile{}, errFileTooLarge
		}
		return domain.StagedFile{}, err
	}
	return domain.StagedFile{Path: path, OriginalName: part.FileName()}, nil
}

// sweep removes whatever is still staged.
func sweep(files []domain.StagedFile) {
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", f.Path).Msg("staged file cleanup failed")
		}
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
