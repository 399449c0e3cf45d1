package chain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e dataError) Error() string          { return e.msg }
func (e dataError) ErrorData() interface{} { return e.data }

// revertData encodes Error(string) the way solidity does.
func revertData(t *testing.T, reason string) string {
	t.Helper()
	strType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: strType}}.Pack(reason)
	require.NoError(t, err)
	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	return hexutil.Encode(append(selector, packed...))
}

func TestRevertReasonFromErrorData(t *testing.T) {
	err := fmt.Errorf("estimate gas: %w", dataError{
		msg:  "execution reverted",
		data: revertData(t, "ERC721: caller is not token owner or approved"),
	})
	require.Equal(t, "ERC721: caller is not token owner or approved", RevertReason(err))
}

func TestRevertReasonFromMessage(t *testing.T) {
	err := errors.New("execution reverted: Credit expired")
	require.Equal(t, "Credit expired", RevertReason(err))
}

func TestRevertReasonNone(t *testing.T) {
	require.Equal(t, "", RevertReason(nil))
	require.Equal(t, "", RevertReason(errors.New("connection refused")))
	require.Equal(t, "", RevertReason(dataError{msg: "execution reverted", data: "0x"}))
}

func TestEmbeddedABIParses(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(carbonCreditABI))
	require.NoError(t, err)
	for _, name := range []string{"getCreditByOwner", "getRate", "safeTransferFrom"} {
		_, ok := parsed.Methods[name]
		require.True(t, ok, name)
	}
}
