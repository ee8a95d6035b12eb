package handler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatStr(t *testing.T) {
	in := `
		  HOME TEST FAILED

		Error Message:
		  boom
	`
	require.Equal(t, "HOME TEST FAILED\n\nError Message:\nboom", FormatStr(in))
	require.Equal(t, "Shoe Store", FormatStr("\n   Shoe Store\n  "))
}

func TestToStr(t *testing.T) {
	var nilStr *string
	var nilInt *int
	n := 87

	require.Equal(t, "", ToStr(nil))
	require.Equal(t, "", ToStr(nilStr))
	require.Equal(t, "", ToStr(nilInt))
	require.Equal(t, "87", ToStr(&n))
	require.Equal(t, "0.25", ToStr(0.25))
	require.Equal(t, "Good", ToStr(StrPtr("Good")))
	require.Nil(t, StrPtr(""))
}

func TestRowMarshalJSONKeepsOrder(t *testing.T) {
	score := 42
	row := Row{{"Zeta", StrPtr("z")}, {"Alpha", (*string)(nil)}, {"Score", &score}}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	require.Equal(t, `{"Zeta":"z","Alpha":null,"Score":42}`, string(data))

	v, ok := row.Get("Score")
	require.True(t, ok)
	require.Equal(t, &score, v)
	_, ok = row.Get("Missing")
	require.False(t, ok)
}
