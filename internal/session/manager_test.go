package session

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Z]{5}$`)

func TestCreateAssignsWellFormedIDs(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := m.Create("owner")
		assert.Regexp(t, sessionIDPattern, s.ID)
		assert.False(t, seen[s.ID], "duplicate session ID %s", s.ID)
		seen[s.ID] = true
	}
	assert.Equal(t, 50, m.Count())
}

func TestGetAndRemove(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	s := m.Create("alice")

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("ZZZZZ")
	assert.False(t, ok)

	m.Remove(s.ID)
	_, ok = m.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestFindByMemberScansSessions(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	first := m.Create("alice")
	first.AddMember("bob")
	m.Create("carol")

	found, ok := m.FindByMember("bob")
	require.True(t, ok)
	assert.Equal(t, first.ID, found.ID)

	_, ok = m.FindByMember("nobody")
	assert.False(t, ok)
}
