package game

import (
	"testing"

	"github.com/bangfree/bang-server-go/internal/protocol"
	"github.com/stretchr/testify/assert"
)

func TestCharacterByIDFallsBackToDefault(t *testing.T) {
	billy := CharacterByID(protocol.CharacterBillyTheKid)
	assert.Equal(t, uint8(5), billy.HP)

	unknown := CharacterByID(protocol.Character(200))
	assert.Equal(t, defaultCharacter.HP, unknown.HP)
}
