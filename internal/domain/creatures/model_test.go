package creatures

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNA_JSONIsHex(t *testing.T) {
	d := DNA{0x00, 0x01, 0xab, 0xff}

	b, err := json.Marshal(struct {
		DNA DNA `json:"dna"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dna":"0001abff000000000000000000000000"}`, string(b))

	var back struct {
		DNA DNA `json:"dna"`
	}
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back.DNA)
}

func TestDNA_UnmarshalRejectsWrongLength(t *testing.T) {
	var d DNA
	require.ErrorIs(t, d.UnmarshalText([]byte("abcd")), ErrInvalidInput)
	require.ErrorIs(t, d.UnmarshalText([]byte("zz01abff000000000000000000000000")), ErrInvalidInput)

	_, err := DNAFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)

	for _, bad := range []string{"", "-1", "abc", "4294967296"} {
		_, err := ParseID(bad)
		require.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}

func TestCreature_CloneIsDeep(t *testing.T) {
	c := Creature{ID: 1, Parents: &Parents{First: 0, Second: 2}, Children: []ID{3}, Partners: []ID{4}}
	cp := c.Clone()
	cp.Parents.First = 9
	cp.Children[0] = 9
	cp.Partners = append(cp.Partners, 9)

	assert.Equal(t, ID(0), c.Parents.First)
	assert.Equal(t, []ID{3}, c.Children)
	assert.Equal(t, []ID{4}, c.Partners)
}
