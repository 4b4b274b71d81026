package types

// Document is the structured, JSON-friendly form of a Costume.
//
// Pointer fields distinguish a missing key from an empty value; every key is
// required except character.species, which may be absent or null.
type Document struct {
	Version   *uint16            `json:"version"`
	Game      *GameDocument      `json:"game"`
	Character *CharacterDocument `json:"character"`
	Owner     *OwnerDocument     `json:"owner"`
	Data      *string            `json:"data"`
}

// GameDocument identifies the game a costume belongs to.
type GameDocument struct {
	Name *string `json:"name"`
	ID   *string `json:"id"`
}

// CharacterDocument describes the character body. Gender and Species are
// stored without their "Gender:" and "Species:" prefixes.
type CharacterDocument struct {
	Gender  *string `json:"gender"`
	Species *string `json:"species"`
}

// OwnerDocument identifies who saved the costume.
type OwnerDocument struct {
	Account   *string `json:"account"`
	Character *string `json:"character"`
	UID       *string `json:"uid"`
}
