package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"ordercard/internal/card"
	"ordercard/internal/dataurl"
)

// Sharer hands a file to some external share surface. CanShare is asked
// afresh for every delivery.
type Sharer interface {
	CanShare(f *dataurl.File) bool
	Share(ctx context.Context, f *dataurl.File, title, text string) error
}

type Method string

const (
	MethodShared     Method = "shared"
	MethodDownloaded Method = "downloaded"
)

type Delivery struct {
	Method Method
	// Path is set for downloads.
	Path string
}

type Deliverer struct {
	sharer      Sharer
	downloadDir string
	logger      *zap.Logger
}

// NewDeliverer builds a deliverer; sharer may be nil, in which case every
// delivery is a download.
func NewDeliverer(sharer Sharer, downloadDir string, logger *zap.Logger) *Deliverer {
	return &Deliverer{
		sharer:      sharer,
		downloadDir: downloadDir,
		logger:      logger,
	}
}

// ShareOrDownload shares img when the share surface accepts it, otherwise
// saves it as filename in the download directory. A failed share is not
// retried as a download.
func (d *Deliverer) ShareOrDownload(ctx context.Context, img, filename, text string) (*Delivery, error) {
	logger := d.logger.With(zap.String("filename", filename))

	f, ok := dataurl.Decode(img, filename)
	if !ok {
		logger.Error("exported image is not a valid data URI")
		return nil, &Error{Op: "decode", Err: fmt.Errorf("malformed data URI for %s", filename)}
	}

	if d.sharer != nil && d.sharer.CanShare(f) {
		if err := d.sharer.Share(ctx, f, card.Title, text); err != nil {
			logger.Error("share failed", zap.Error(err))
			return nil, &Error{Op: "share", Err: err}
		}
		logger.Info("card shared")
		return &Delivery{Method: MethodShared}, nil
	}

	path, err := writeAtomic(d.downloadDir, filename, f.Data)
	if err != nil {
		logger.Error("download failed", zap.Error(err))
		return nil, &Error{Op: "download", Err: err}
	}
	logger.Info("card downloaded", zap.String("path", path))
	return &Delivery{Method: MethodDownloaded, Path: path}, nil
}

// writeAtomic writes data under dir via a temp file and rename, so the
// destination is either absent or complete.
func writeAtomic(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(dir, name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("rename into place: %w", err)
	}
	return dest, nil
}

// CommandSharer shares by running an external command with the file path as
// its last argument. Title and text are passed in ORDERCARD_SHARE_TITLE and
// ORDERCARD_SHARE_TEXT.
type CommandSharer struct {
	command  []string
	tempDir  string
	lookPath func(string) (string, error)
	logger   *zap.Logger
}

// NewCommandSharer parses command as whitespace-separated words. An empty
// command yields a sharer that never accepts.
func NewCommandSharer(command, tempDir string, logger *zap.Logger) *CommandSharer {
	return &CommandSharer{
		command:  strings.Fields(command),
		tempDir:  tempDir,
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

func (s *CommandSharer) CanShare(f *dataurl.File) bool {
	if len(s.command) == 0 || f == nil {
		return false
	}
	if !strings.HasPrefix(f.MimeType, "image/") {
		return false
	}
	if _, err := s.lookPath(s.command[0]); err != nil {
		s.logger.Debug("share command not available", zap.String("command", s.command[0]), zap.Error(err))
		return false
	}
	return true
}

// Share hands f to the command. The file only lives until the command
// exits, so the command must be done with it by then.
func (s *CommandSharer) Share(ctx context.Context, f *dataurl.File, title, text string) error {
	dir, err := os.MkdirTemp(s.tempDir, "ordercard-share-")
	if err != nil {
		return fmt.Errorf("create share dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path, err := writeAtomic(dir, f.Name, f.Data)
	if err != nil {
		return err
	}

	args := append(append([]string(nil), s.command[1:]...), path)
	cmd := exec.CommandContext(ctx, s.command[0], args...)
	cmd.Env = append(os.Environ(),
		"ORDERCARD_SHARE_TITLE="+title,
		"ORDERCARD_SHARE_TEXT="+text,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("share command %s: %w (output: %s)", s.command[0], err, strings.TrimSpace(string(out)))
	}
	s.logger.Debug("share command finished", zap.String("path", path))
	return nil
}
