package game

import "github.com/bangfree/bang-server-go/internal/protocol"

// CharacterData holds a character's base attributes and the triggers their
// passive ability reacts to.
type CharacterData struct {
	HP             uint8
	Triggers       []EventTrigger
	EffectOptional bool
}

var characterTable = map[protocol.Character]CharacterData{
	protocol.CharacterBillyTheKid: {
		HP:             5,
		Triggers:       []EventTrigger{TriggerDamage},
		EffectOptional: true,
	},
}

var defaultCharacter = CharacterData{HP: 5, EffectOptional: true}

// CharacterByID looks up a character's static data. Unknown characters fall
// back to baseline attributes rather than failing a game in progress.
func CharacterByID(character protocol.Character) CharacterData {
	if data, ok := characterTable[character]; ok {
		return data
	}
	return defaultCharacter
}
