package setup

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wplizard/cli/internal/catalog"
	"github.com/wplizard/cli/internal/config"
	oerrors "github.com/wplizard/cli/internal/errors"
	"github.com/wplizard/cli/internal/fsys"
	"github.com/wplizard/cli/internal/identity"
	"github.com/wplizard/cli/internal/manifest"
	"github.com/wplizard/cli/internal/output"
	"github.com/wplizard/cli/internal/skeleton"
	"github.com/wplizard/cli/internal/testutil"
	"github.com/wplizard/cli/internal/wizard"
)

const testCatalog = `
- name: Admin
  recommended: true
  description: admin area
  children:
    - name: Views
      description: admin views
    - name: Assets
      description: admin assets
- name: Core
  description: plugin core
`

// structureID is the first ID a sequence generator hands out.
const structureID = "plugin-structure-1"

type fakeRunner struct {
	calls int
}

func (r *fakeRunner) Run(context.Context, string, string, ...string) error {
	r.calls++
	return nil
}

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := output.SetLogOutput(&buf)
	t.Cleanup(func() { output.SetLogOutput(prev) })
	return &buf
}

func newSession(t *testing.T, svc *fsys.Service, lazy bool, answers ...testutil.Answer) (Session, *testutil.Script, *bytes.Buffer) {
	t.Helper()
	quietLogs(t)
	c, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	script := testutil.NewScript(answers...)
	out := &bytes.Buffer{}
	return Session{
		Root:     "/plugin",
		Lazy:     lazy,
		Prompter: script,
		FS:       svc,
		Catalog:  c,
		IDs:      identity.NewSequence(),
		Runner:   &fakeRunner{},
		Out:      out,
	}, script, out
}

// guided answers the step menu and the guided walk: Admin/Views and Core.
func guided() []testutil.Answer {
	return []testutil.Answer{
		testutil.Choose(structureID),
		testutil.Choose(manifest.ModeGuided),
		testutil.Pick(0, 1),
		testutil.Pick(0),
	}
}

func TestRun_LazyRecordsOnly(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(),
		testutil.Yes(), // write the artifact
		testutil.No(),  // no review
	)
	s, script, out := newSession(t, svc, true, answers...)

	require.NoError(t, Run(context.Background(), s))
	assert.Zero(t, script.Remaining())

	assert.False(t, svc.Exists("/plugin/includes"), "lazy runs create no folders")
	m, err := manifest.Read(svc, "/plugin/"+manifest.FileName)
	require.NoError(t, err)
	assert.True(t, m.Lazy)
	assert.Equal(t, []string{"Admin/Views", "Core"}, m.Paths())
	assert.Equal(t, []string{structureID, string(skeleton.TerminalID)}, m.CompletedSteps)

	assert.Contains(t, out.String(), "Setup complete: 2 steps")
	assert.Contains(t, out.String(), "wplizard setup apply /plugin")
}

func TestRun_LazyReviewRerunsAStep(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(),
		testutil.Yes(), // write the artifact
		testutil.Yes(), // review
		testutil.Choose(structureID),
		testutil.Yes(), // confirm rerun
		testutil.Choose(manifest.ModeManual),
		testutil.Text("Blocks"),
		testutil.No(), // no subfolders
		testutil.No(), // no more top-level folders
		testutil.No(), // done reviewing
	)
	s, script, _ := newSession(t, svc, true, answers...)

	require.NoError(t, Run(context.Background(), s))
	assert.Zero(t, script.Remaining())
	assert.Equal(t, 1, script.Asked(wizard.QuestionRerun))

	m, err := manifest.Read(svc, "/plugin/"+manifest.FileName)
	require.NoError(t, err)
	assert.Equal(t, manifest.ModeManual, m.Structure.Mode)
	assert.Contains(t, m.Paths(), "Blocks")
}

func TestRun_TerminalStepCannotBeReviewed(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(),
		testutil.Yes(),
		testutil.Yes(),
		testutil.Choose(string(skeleton.TerminalID)), // disabled, re-asked
		testutil.Choose(structureID),
		testutil.No(), // decline rerun, menu again
		testutil.Choose(structureID),
		testutil.Yes(),
		testutil.Choose(manifest.ModeGuided),
		testutil.Pick(1),
		testutil.No(),
	)
	s, script, _ := newSession(t, svc, true, answers...)

	require.NoError(t, Run(context.Background(), s))
	assert.Equal(t, []string{"disabled: " + string(skeleton.TerminalID)}, script.Rejected)
	assert.Equal(t, 2, script.Asked(wizard.QuestionRerun))

	m, err := manifest.Read(svc, "/plugin/"+manifest.FileName)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin/Views", "Core"}, m.Paths(), "re-selection adds to the earlier one")
}

func TestRun_EagerCreatesFolders(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(), testutil.Yes())
	s, script, out := newSession(t, svc, false, answers...)

	require.NoError(t, Run(context.Background(), s))
	assert.Zero(t, script.Remaining())

	for _, p := range []string{"/plugin/includes/Admin/Views", "/plugin/includes/Core", "/plugin/" + manifest.FileName} {
		assert.True(t, svc.Exists(p), p)
	}
	assert.NotContains(t, out.String(), "setup apply")

	m, err := manifest.Read(svc, "/plugin/"+manifest.FileName)
	require.NoError(t, err)
	assert.False(t, m.Lazy)
	assert.Equal(t, []string{structureID, string(skeleton.TerminalID)}, m.CompletedSteps)
}

func TestRun_EagerFailureRollsBack(t *testing.T) {
	failing := testutil.NewFailingFs(afero.NewMemMapFs(), "Core")
	svc := fsys.New(failing)
	require.NoError(t, svc.CreateDirectory("/plugin", true))
	s, _, _ := newSession(t, svc, false, guided()...)

	err := Run(context.Background(), s)

	var halt *wizard.HaltError
	require.ErrorAs(t, err, &halt)
	assert.Equal(t, wizard.PhaseAction, halt.Phase)
	assert.ErrorIs(t, err, oerrors.ErrPermission)
	assert.False(t, svc.Exists("/plugin/includes"), "the active piece's folders are removed")
	assert.False(t, svc.Exists("/plugin/"+manifest.FileName))
}

func TestRun_AbortedSelection(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	s, _, _ := newSession(t, svc, true, testutil.Choose(structureID), testutil.Abort())

	err := Run(context.Background(), s)

	var halt *wizard.HaltError
	require.ErrorAs(t, err, &halt)
	assert.Equal(t, wizard.PhaseStart, halt.Phase)
	assert.ErrorIs(t, err, oerrors.ErrAborted)
	assert.False(t, svc.Exists("/plugin/"+manifest.FileName))
}

func TestRun_RootMustBeEmpty(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	testutil.WriteFile(t, svc, "/plugin/readme.txt", "hi")
	s, script, _ := newSession(t, svc, true)

	err := Run(context.Background(), s)

	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Empty(t, script.Calls, "no prompt is shown")
}

func TestRun_UsesSettings(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(), testutil.Yes())
	s, _, _ := newSession(t, svc, false, answers...)
	s.Settings = &config.Settings{BaseDir: "src", Artifact: "plugin.yaml", Concurrency: 1}

	require.NoError(t, Run(context.Background(), s))
	assert.True(t, svc.Exists("/plugin/src/Core"))
	assert.True(t, svc.Exists("/plugin/plugin.yaml"))
}

func TestApply_MaterializesRecordedFolders(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	answers := append(guided(), testutil.Yes(), testutil.No())
	s, _, _ := newSession(t, svc, true, answers...)
	require.NoError(t, Run(context.Background(), s))

	out := &bytes.Buffer{}
	runner := &fakeRunner{}
	err := Apply(context.Background(), Session{
		Root: "/plugin", FS: svc, Catalog: s.Catalog, IDs: identity.NewSequence(),
		RunInstallers: true, Runner: runner, Out: out,
	})

	require.NoError(t, err)
	assert.True(t, svc.Exists("/plugin/includes/Admin/Views"))
	assert.True(t, svc.Exists("/plugin/includes/Core"))
	assert.Equal(t, 1, runner.calls)
	assert.Contains(t, out.String(), "Applied")
}

func TestApply_TwiceFailsWithoutRemovingExistingFolders(t *testing.T) {
	svc := testutil.MemService(t, "/plugin/includes/Core")
	require.NoError(t, manifest.Write(svc, "/plugin/"+manifest.FileName, &manifest.Manifest{
		Version: manifest.Version,
		BaseDir: "includes",
		Structure: manifest.Structure{
			Mode:    manifest.ModeManual,
			Folders: []manifest.Folder{{Path: "Blocks"}, {Path: "Core"}},
		},
	}))
	quietLogs(t)

	err := Apply(context.Background(), Session{Root: "/plugin", FS: svc, Out: &bytes.Buffer{}})

	var halt *wizard.HaltError
	require.ErrorAs(t, err, &halt)
	assert.True(t, errors.Is(err, oerrors.ErrFilesystem))
	assert.True(t, svc.Exists("/plugin/includes/Core"), "pre-existing folders are not ours to remove")
	assert.False(t, svc.Exists("/plugin/includes/Blocks"), "folders created by the failed pass are removed")
}

func TestApply_MissingArtifact(t *testing.T) {
	svc := testutil.MemService(t, "/plugin")
	quietLogs(t)

	err := Apply(context.Background(), Session{Root: "/plugin", FS: svc, Out: &bytes.Buffer{}})
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestReport(t *testing.T) {
	logs := quietLogs(t)

	assert.NoError(t, Report(nil))

	halt := &wizard.HaltError{StepID: "x", StepName: "Define plugin structure", Phase: wizard.PhaseStart, Err: oerrors.ErrAborted}
	err := Report(halt)
	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.True(t, exitErr.Printed)
	assert.Equal(t, oerrors.ExitAborted, exitErr.Code)
	assert.Contains(t, logs.String(), `Setup halted at step "Define plugin structure" during start`)

	err = Report(oerrors.NewValidationError("directory is not empty", "/plugin", "", "Choose an empty directory"))
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, oerrors.ExitValidationError, exitErr.Code)
	assert.Contains(t, logs.String(), "Hint: Choose an empty directory")
}
