// Package scripts renders and writes the files that make a switch
// persistent across sessions: a sourceable switch script, an alias file,
// a virtual environment activation script and an importable helper
// module. Every file is overwritten on each run.
package scripts

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/pyswitch/pkg/errors"
	"github.com/arthur-debert/pyswitch/pkg/logging"
	"github.com/arthur-debert/pyswitch/pkg/paths"
	"github.com/arthur-debert/pyswitch/pkg/types"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// Kind identifies an artifact
type Kind string

const (
	KindSwitch     Kind = "switch"
	KindAliases    Kind = "aliases"
	KindActivation Kind = "activation"
	KindHelper     Kind = "helper"
)

// Artifact is a rendered file ready to be written
type Artifact struct {
	Kind    Kind
	Path    string
	Content string
	Mode    os.FileMode
}

// Target carries the values the templates need
type Target struct {
	Version string
	Binary  string
}

// NoDot returns the version without dots
func (t Target) NoDot() string {
	return strings.ReplaceAll(t.Version, ".", "")
}

type data struct {
	Version     string
	NoDot       string
	Binary      string
	Path        string
	Interpreter string
	VenvPath    string
	Module      string
}

func (t Target) data(path string) data {
	return data{Version: t.Version, NoDot: t.NoDot(), Binary: t.Binary, Path: path}
}

func render(name string, d data) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, d); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "failed to render %s", name)
	}
	return buf.String(), nil
}

// SwitchScript renders the sourceable switch script
func SwitchScript(t Target, path string) (Artifact, error) {
	content, err := render("switch.sh.tmpl", t.data(path))
	return Artifact{Kind: KindSwitch, Path: path, Content: content, Mode: 0755}, err
}

// AliasFile renders the alias file. interpreter is the path the plain
// python alias points at.
func AliasFile(t Target, interpreter, path string) (Artifact, error) {
	d := t.data(path)
	d.Interpreter = interpreter
	if d.Interpreter == "" {
		d.Interpreter = "/usr/bin/" + t.Binary
	}
	content, err := render("aliases.tmpl", d)
	return Artifact{Kind: KindAliases, Path: path, Content: content, Mode: 0644}, err
}

// ActivationScript renders the venv activation script. The venv path is
// written literally.
func ActivationScript(t Target, venvPath, path string) (Artifact, error) {
	d := t.data(path)
	d.VenvPath = venvPath
	content, err := render("activate.sh.tmpl", d)
	return Artifact{Kind: KindActivation, Path: path, Content: content, Mode: 0755}, err
}

// HelperModule renders the importable helper module
func HelperModule(t Target, path string) (Artifact, error) {
	d := t.data(path)
	d.Module = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	content, err := render("helper.py.tmpl", d)
	return Artifact{Kind: KindHelper, Path: path, Content: content, Mode: 0644}, err
}

// Writer writes artifacts to a filesystem
type Writer struct {
	fs     types.FS
	dryRun bool
}

// NewWriter creates a writer
func NewWriter(fsys types.FS) *Writer {
	return &Writer{fs: fsys}
}

// WithDryRun makes Write resolve paths without touching the filesystem
func (w *Writer) WithDryRun(dryRun bool) *Writer {
	w.dryRun = dryRun
	return w
}

// Write expands ~ in the artifact path, creates the parent directory,
// writes the content and applies the mode. It returns the absolute path.
func (w *Writer) Write(a Artifact) (string, error) {
	logger := logging.GetLogger("scripts")
	path := paths.ExpandHome(a.Path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if w.dryRun {
		logger.Info().Str("path", path).Str("kind", string(a.Kind)).Msg("Dry run mode - file would be written")
		return path, nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	if err := w.fs.WriteFile(path, []byte(a.Content), a.Mode); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	// WriteFile keeps the mode of an existing file
	if err := w.fs.Chmod(path, a.Mode); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to set mode on %s", path)
	}

	logger.Info().Str("path", path).Str("kind", string(a.Kind)).Msg("Wrote artifact")
	return path, nil
}
