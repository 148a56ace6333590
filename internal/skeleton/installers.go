package skeleton

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/piece"
)

// InstallersID is the ID of the dependency installation step.
const InstallersID piece.ID = "run-installers"

// Runner runs an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Installers writes a composer.json when the plugin has none and runs
// composer install in the plugin root.
type Installers struct {
	piece.Meta

	opts Options
	log  *log.Logger

	skip         bool
	wroteCompose bool
	ownsVendor   bool
}

// NewInstallers returns the optional dependency installation piece.
func NewInstallers(opts Options) *Installers {
	opts = opts.withDefaults()
	return &Installers{
		Meta: piece.Meta{
			PieceID:          InstallersID,
			PieceName:        "Run installers",
			PieceDescription: "Installs the plugin's PHP dependencies with composer.",
			IsOptional:       true,
		},
		opts: opts,
		log:  output.StepLogger(string(InstallersID)),
	}
}

// Start implements piece.Piece. Declining skips the step instead of
// aborting, since the step is optional.
func (i *Installers) Start(ctx context.Context) error {
	ok, err := i.opts.Prompter.Confirm(ctx, "Run composer install in the plugin root?", true)
	if err != nil {
		return err
	}
	i.skip = !ok
	if i.skip {
		i.log.Info("skipping dependency installation")
	}
	return nil
}

// InstallTimeout bounds a single composer install.
const InstallTimeout = 10 * time.Minute

// Action implements piece.Piece.
func (i *Installers) Action(ctx context.Context) error {
	if i.skip {
		return nil
	}

	composer := filepath.Join(i.opts.Root, "composer.json")
	if !i.opts.FS.Exists(composer) {
		data, err := composerManifest(filepath.Base(filepath.Clean(i.opts.Root)), i.opts.BaseDir)
		if err != nil {
			return err
		}
		if err := i.opts.FS.WriteFile(composer, data); err != nil {
			return err
		}
		i.wroteCompose = true
	}

	vendor := filepath.Join(i.opts.Root, "vendor")
	i.ownsVendor = !i.opts.FS.Exists(vendor)

	i.log.Info("running composer install")
	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		return i.opts.Runner.Run(ctx, i.opts.Root, "composer", "install")
	}, output.WithTitle("Installing dependencies..."), output.WithTimeout(InstallTimeout))
	if err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	fmt.Fprintln(i.opts.Out, output.FormatCheckmark("Dependencies installed"))
	return nil
}

// Rollback implements piece.Piece. A vendor directory that existed before
// Action is left alone.
func (i *Installers) Rollback(_ context.Context) error {
	vendor := filepath.Join(i.opts.Root, "vendor")
	if i.ownsVendor && i.opts.FS.Exists(vendor) {
		if err := i.opts.FS.RemoveDirectory(vendor, true); err != nil {
			return err
		}
	}
	i.ownsVendor = false
	if i.wroteCompose {
		for _, f := range []string{"composer.json", "composer.lock"} {
			if err := i.opts.FS.Remove(filepath.Join(i.opts.Root, f)); err != nil {
				return err
			}
		}
		i.wroteCompose = false
	}
	return nil
}

var nonWord = regexp.MustCompile(`[^A-Za-z0-9]+`)

// composerManifest maps the plugin's base directory to a PSR-4 namespace
// derived from the plugin name.
func composerManifest(plugin, baseDir string) ([]byte, error) {
	var ns strings.Builder
	for _, part := range nonWord.Split(plugin, -1) {
		if part == "" {
			continue
		}
		ns.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	if ns.Len() == 0 {
		ns.WriteString("Plugin")
	}

	slug := strings.Trim(strings.ToLower(nonWord.ReplaceAllString(plugin, "-")), "-")
	if slug == "" {
		slug = "plugin"
	}

	doc := map[string]any{
		"name": "wplizard/" + slug,
		"type": "wordpress-plugin",
		"autoload": map[string]any{
			"psr-4": map[string]string{ns.String() + `\`: baseDir + "/"},
		},
		"require": map[string]string{},
	}
	return json.MarshalIndent(doc, "", "    ")
}
