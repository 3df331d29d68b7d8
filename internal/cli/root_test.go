package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journalapp/journal-server/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCreateSuperuserSeedAndList(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "createsuperuser", "--data-path", dir,
		"--email", "Root@Example.com", "--password", "root-password", "--first-name", "Root")
	require.NoError(t, err, out)
	assert.Contains(t, out, "root@example.com")

	out, err = execute(t, "tags", "seed", "--data-path", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "10 of 10")

	// Seeding again skips every existing name.
	out, err = execute(t, "tags", "seed", "--data-path", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 of 10")

	out, err = execute(t, "tags", "list", "--data-path", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "CLASS")
	for _, p := range domain.TagPalettes {
		assert.Contains(t, out, p.Class)
	}

	out, err = execute(t, "users", "list", "--data-path", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "root@example.com")
	assert.Contains(t, out, "yes")
}

func TestSeedWithoutSuperuserFails(t *testing.T) {
	_, err := execute(t, "tags", "seed", "--data-path", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superuser")
}

func TestCreateSuperuserRequiresFlags(t *testing.T) {
	_, err := execute(t, "createsuperuser", "--data-path", t.TempDir(), "--email", "root@example.com")
	require.Error(t, err)
}
