package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/pci-atlas/pkg/models/domain"
)

func TestConfirmDegraded_YesContinues(t *testing.T) {
	out := &bytes.Buffer{}
	p := New(strings.NewReader("y\n"), out)

	ok, err := p.ConfirmDegraded(domain.PermissionReport{
		Total:   10,
		Denied:  4,
		Missing: []string{"compute.firewalls.list"},
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "60%")
	assert.Contains(t, out.String(), "compute.firewalls.list")
}

func TestConfirmDegraded_DefaultIsDecline(t *testing.T) {
	for _, answer := range []string{"n\n", "\n", "whatever\n"} {
		p := New(strings.NewReader(answer), &bytes.Buffer{})
		ok, err := p.ConfirmDegraded(domain.PermissionReport{Total: 2, Denied: 1})
		require.NoError(t, err)
		assert.False(t, ok, "answer %q should decline", answer)
	}
}

func TestConfirmDegraded_ClosedInputDeclines(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	ok, err := p.ConfirmDegraded(domain.PermissionReport{Total: 3, Denied: 2})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsInteractive_FalseForBuffer(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	assert.False(t, p.IsInteractive())
}
