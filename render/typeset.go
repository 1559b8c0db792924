package render

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jsphweid/chordmelody/logger"
	"github.com/pkg/errors"
)

// Typeset runs LilyPond on a .ly file, writing the PDF next to it.
func Typeset(ctx context.Context, lilypondPath, lyFile string) (string, error) {
	if lilypondPath == "" {
		return "", errors.New("LILYPOND_PATH is not set")
	}
	base := strings.TrimSuffix(lyFile, filepath.Ext(lyFile))
	out, err := exec.CommandContext(ctx, lilypondPath, "-o", base, lyFile).CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "lilypond failed: %s", strings.TrimSpace(string(out)))
	}
	logger.Debug("typeset", logger.Fields{"file": lyFile})
	return base + ".pdf", nil
}
