package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	var body struct {
		TokenID FlexString `json:"tokenId"`
		Price   FlexString `json:"price"`
		Missing FlexString `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tokenId": 42, "price": "1000000000000000000000", "missing": null}`), &body))
	require.Equal(t, FlexString("42"), body.TokenID)
	require.Equal(t, "1000000000000000000000", body.Price.String())
	require.Nil(t, body.Missing.Ptr())
	require.Equal(t, "42", *body.TokenID.Ptr())

	err := json.Unmarshal([]byte(`{"tokenId": true}`), &body)
	require.Error(t, err)
}
