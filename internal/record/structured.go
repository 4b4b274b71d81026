package record

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/crypticcostume/costume/internal/types"
)

// ToDocument converts a costume into its structured form.
// Gender and species lose everything up to and including the first ':'.
func ToDocument(c types.Costume) types.Document {
	gender := types.AfterColon(c.Gender)

	var species *string
	if name, ok := c.SpeciesName(); ok {
		species = &name
	}

	return types.Document{
		Version: &c.Version,
		Game: &types.GameDocument{
			Name: &c.GameName,
			ID:   &c.GameID,
		},
		Character: &types.CharacterDocument{
			Gender:  &gender,
			Species: species,
		},
		Owner: &types.OwnerDocument{
			Account:   &c.Account,
			Character: &c.Character,
			UID:       &c.UID,
		},
		Data: &c.Data,
	}
}

// FromDocument converts a structured document into a costume.
//
// Every required key that is missing is reported; the returned error is a
// *multierror.Error whose entries are *types.MissingKeyError values.
// A species that is absent, null or empty yields a costume without species.
func FromDocument(d types.Document) (types.Costume, error) {
	var result *multierror.Error
	missing := func(key string) {
		result = multierror.Append(result, &types.MissingKeyError{Key: key})
	}

	var c types.Costume

	if d.Version == nil {
		missing("version")
	} else {
		c.Version = *d.Version
	}

	if d.Game == nil {
		missing("game")
	} else {
		take(&c.GameName, d.Game.Name, "game.name", missing)
		take(&c.GameID, d.Game.ID, "game.id", missing)
	}

	if d.Character == nil {
		missing("character")
	} else {
		var gender string
		if take(&gender, d.Character.Gender, "character.gender", missing) {
			c.Gender = types.GenderPrefix + gender
		}
		if s := d.Character.Species; s != nil && *s != "" {
			species := types.SpeciesPrefix + *s
			c.Species = &species
		}
	}

	if d.Owner == nil {
		missing("owner")
	} else {
		take(&c.Account, d.Owner.Account, "owner.account", missing)
		take(&c.Character, d.Owner.Character, "owner.character", missing)
		take(&c.UID, d.Owner.UID, "owner.uid", missing)
	}

	take(&c.Data, d.Data, "data", missing)

	if err := result.ErrorOrNil(); err != nil {
		return types.Costume{}, err
	}
	return c, nil
}

func take(dst *string, src *string, key string, missing func(string)) bool {
	if src == nil {
		missing(key)
		return false
	}
	*dst = *src
	return true
}

// MarshalJSON encodes c as an indented structured document.
func MarshalJSON(c types.Costume) ([]byte, error) {
	return json.MarshalIndent(ToDocument(c), "", "  ")
}

// UnmarshalJSON decodes a structured document into a costume.
func UnmarshalJSON(b []byte) (types.Costume, error) {
	var d types.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return types.Costume{}, fmt.Errorf("decode costume document: %w", err)
	}
	return FromDocument(d)
}
