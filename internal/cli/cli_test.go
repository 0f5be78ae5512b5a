package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgettica/contact-fixer/internal/config"
	"github.com/georgettica/contact-fixer/internal/db"
	"github.com/georgettica/contact-fixer/internal/people"
)

// scriptedPrompter answers questions from a list. Answers rejected by the
// validator are recorded and the next answer is tried, like the real prompt.
type scriptedPrompter struct {
	answers  []string
	confirm  bool
	asked    []string
	rejected []string
	defaults []string
	confirms int
}

func (p *scriptedPrompter) Ask(question, def string, validate func(string) error) (string, error) {
	p.asked = append(p.asked, question)
	p.defaults = append(p.defaults, def)
	for len(p.answers) > 0 {
		answer := p.answers[0]
		p.answers = p.answers[1:]
		if answer == "" {
			answer = def
		}
		if validate != nil {
			if err := validate(answer); err != nil {
				p.rejected = append(p.rejected, answer)
				continue
			}
		}
		return answer, nil
	}
	return "", errors.New("prompt: out of answers")
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.confirms++
	return p.confirm, nil
}

type testEnv struct {
	configPath string
	dbPath     string
	out        *bytes.Buffer
	sleeps     []time.Duration
}

func newTestEnv(t *testing.T, withDB bool) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(dir, "config.toml"),
		dbPath:     filepath.Join(dir, "contacts.db"),
		out:        &bytes.Buffer{},
	}

	content := fmt.Sprintf(`
[directory]
backend = "sqlite"
upload_delay = "2s"

[database]
path = %q

[log]
file = %q
`, env.dbPath, filepath.Join(dir, "contact-fixer.log"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0644))

	if withDB {
		require.NoError(t, db.CreateFixturesDatabase(env.dbPath))
	}
	return env
}

func (e *testEnv) run(p Prompter, args ...string) error {
	a := &app{
		in:       strings.NewReader(""),
		out:      e.out,
		errOut:   &bytes.Buffer{},
		prompter: p,
		sleep: func(ctx context.Context, d time.Duration) error {
			e.sleeps = append(e.sleeps, d)
			return nil
		},
	}
	cmd := newRootCommand(a)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	return cmd.ExecuteContext(context.Background())
}

func (e *testEnv) phones(t *testing.T) map[string][]string {
	t.Helper()
	database, err := db.Open(e.dbPath, nil)
	require.NoError(t, err)
	defer database.Close()

	contacts, err := database.ListContacts(context.Background(), 1000)
	require.NoError(t, err)

	byName := make(map[string][]string)
	for _, c := range contacts {
		if names := c.DisplayNames(); len(names) > 0 {
			byName[names[0]] = c.PhoneValues()
		}
	}
	return byName
}

func TestFixWithFlagsUploadsChangedContacts(t *testing.T) {
	env := newTestEnv(t, true)

	err := env.run(nil, "--filter", "^05", "--replace", "+9725", "--yes")
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "Connection names:")
	assert.Contains(t, out, "2 phone numbers in 2 contacts will change:")
	assert.Contains(t, out, `"054-1234567" -> "+97254-1234567"`)
	assert.Contains(t, out, "Uploaded 2 contacts")
	assert.NotContains(t, out, "Roy Trenneman")

	phones := env.phones(t)
	assert.Equal(t, []string{"+97254-1234567"}, phones["דני כהן"])
	assert.Equal(t, []string{"+9725 765 4321"}, phones["سارة"])
	assert.Equal(t, []string{"0118-999-881-999-119-725-3"}, phones["Roy Trenneman"])

	// one pause between the two uploads
	assert.Equal(t, []time.Duration{2 * time.Second}, env.sleeps)
}

func TestFixDryRunUploadsNothing(t *testing.T) {
	env := newTestEnv(t, true)

	err := env.run(nil, "--filter", "976", "--replace", "555", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, env.out.String(), `"976-shoe" -> "555-shoe"`)
	assert.Contains(t, env.out.String(), "Dry run, nothing uploaded")
	assert.Equal(t, []string{"976-shoe"}, env.phones(t)["Shoe Emporium"])
}

func TestFixInteractiveRepromptsOnInvalidFilter(t *testing.T) {
	env := newTestEnv(t, true)
	p := &scriptedPrompter{answers: []string{"(", "976", "555"}, confirm: true}

	require.NoError(t, env.run(p))

	assert.Equal(t, []string{"("}, p.rejected)
	assert.Len(t, p.asked, 2)
	assert.Equal(t, "$0", p.defaults[1])
	assert.Equal(t, 1, p.confirms)
	assert.Equal(t, []string{"555-shoe"}, env.phones(t)["Shoe Emporium"])
}

func TestFixInteractiveDefaultsKeepNumbers(t *testing.T) {
	env := newTestEnv(t, true)
	// empty answers take the defaults: the default filter and $0
	p := &scriptedPrompter{answers: []string{"", ""}}

	require.NoError(t, env.run(p))

	assert.Contains(t, env.out.String(), "No phone numbers would change")
	assert.Equal(t, 0, p.confirms)
}

func TestFixDeclinedConfirmationUploadsNothing(t *testing.T) {
	env := newTestEnv(t, true)
	p := &scriptedPrompter{confirm: false}

	require.NoError(t, env.run(p, "--filter", "976", "--replace", "555"))

	assert.Equal(t, 1, p.confirms)
	assert.Contains(t, env.out.String(), "Nothing uploaded")
	assert.Equal(t, []string{"976-shoe"}, env.phones(t)["Shoe Emporium"])
}

func TestFixNoMatchesStopsAfterRendering(t *testing.T) {
	env := newTestEnv(t, true)
	p := &scriptedPrompter{}

	require.NoError(t, env.run(p, "--filter", "^999$"))

	assert.Contains(t, env.out.String(), "No connections found")
	assert.Empty(t, p.asked)
}

func TestFixInvalidFilterFlag(t *testing.T) {
	env := newTestEnv(t, true)
	err := env.run(nil, "--filter", "(", "--yes")
	assert.Error(t, err)
}

func TestFixMissingLocalDatabase(t *testing.T) {
	env := newTestEnv(t, false)
	err := env.run(nil, "--filter", "976")
	assert.ErrorContains(t, err, "init-local")
}

func TestUnknownBackend(t *testing.T) {
	env := newTestEnv(t, true)
	err := env.run(nil, "--backend", "ldap", "--filter", "976")
	assert.ErrorContains(t, err, "not registered")
}

func TestListFiltersContacts(t *testing.T) {
	env := newTestEnv(t, true)

	require.NoError(t, env.run(nil, "list", "--filter", "976"))

	out := env.out.String()
	assert.Contains(t, out, `["Shoe Emporium"]`)
	assert.NotContains(t, out, "Roy Trenneman")
}

func TestListShowsEveryContact(t *testing.T) {
	env := newTestEnv(t, true)

	require.NoError(t, env.run(nil, "list"))

	out := env.out.String()
	assert.Contains(t, out, `["Roy Trenneman"]`)
	assert.Contains(t, out, `["Jen Barber"]`)
	assert.Contains(t, out, "No names")
	assert.Equal(t, len(db.Fixtures()), strings.Count(out, "\n\n"))
}

func TestInitLocal(t *testing.T) {
	env := newTestEnv(t, false)

	require.NoError(t, env.run(nil, "init-local", "--fixtures"))
	assert.Contains(t, env.out.String(), "Local directory created at "+env.dbPath)
	assert.Len(t, env.phones(t), len(db.Fixtures())-2)

	// refuses to overwrite
	assert.Error(t, env.run(nil, "init-local"))
}

func TestInitLocalUseSavesBackend(t *testing.T) {
	env := newTestEnv(t, false)
	content := fmt.Sprintf("[database]\npath = %q\n\n[log]\nfile = %q\n",
		env.dbPath, filepath.Join(filepath.Dir(env.dbPath), "contact-fixer.log"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0644))

	before, err := config.LoadFrom(env.configPath)
	require.NoError(t, err)
	require.Equal(t, "google", before.Directory.Backend)

	require.NoError(t, env.run(nil, "init-local", "--use"))
	assert.Contains(t, env.out.String(), "Backend set to sqlite")

	after, err := config.LoadFrom(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", after.Directory.Backend)
	assert.Equal(t, env.dbPath, after.Database.Path)

	// the saved config drives the next run
	require.NoError(t, env.run(nil, "list"))
	assert.Contains(t, env.out.String(), "No connections found")
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), 0))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}

func TestBackendsRegistered(t *testing.T) {
	assert.Equal(t, []string{"google", "sqlite"}, people.ListBackends())
}
