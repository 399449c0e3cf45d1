// Package chain talks to the carbon credit contract.
package chain

import (
	"context"
	"crypto/ecdsa"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

//go:embed carbon_credit.abi.json
var carbonCreditABI string

// ErrTransactionFailed is returned when a mined transaction has a failed status.
var ErrTransactionFailed = errors.New("transaction failed on chain")

// Credit mirrors the contract's Credit tuple. Field order follows the ABI.
type Credit struct {
	Id             *big.Int
	Typeofcredit   string
	Quantity       *big.Int
	CertificateURI string
	ExpiryDate     *big.Int
	Retired        bool
}

// CreditReader reads credit state from the contract.
type CreditReader interface {
	CreditsByOwner(ctx context.Context, owner string) ([]Credit, error)
	Rate(ctx context.Context, tokenID *big.Int) (*big.Int, error)
}

// Transferer moves tokens on chain and waits for confirmation.
type Transferer interface {
	SafeTransferFrom(ctx context.Context, from, to string, tokenID *big.Int) (*types.Receipt, error)
}

// Contract is the full surface the API needs.
type Contract interface {
	CreditReader
	Transferer
}

// EthContract is a Contract bound to a deployed carbon credit contract.
type EthContract struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	key      *ecdsa.PrivateKey
	chainID  *big.Int
}

// Options configures Dial.
type Options struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string // hex, without 0x
	ABIPath         string // optional override of the embedded ABI
}

// Dial connects to the RPC endpoint and binds the contract.
func Dial(ctx context.Context, opts Options) (*EthContract, error) {
	abiJSON := carbonCreditABI
	if opts.ABIPath != "" {
		b, err := os.ReadFile(opts.ABIPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read contract ABI: %w", err)
		}
		abiJSON = string(b)
	}
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	address := common.HexToAddress(opts.ContractAddress)
	return &EthContract{
		client:   client,
		contract: bind.NewBoundContract(address, parsed, client, client, client),
		key:      key,
		chainID:  chainID,
	}, nil
}

// Client exposes the underlying RPC client.
func (c *EthContract) Client() *ethclient.Client { return c.client }

// Close releases the RPC connection.
func (c *EthContract) Close() { c.client.Close() }

// CreditsByOwner calls getCreditByOwner(owner).
func (c *EthContract) CreditsByOwner(ctx context.Context, owner string) ([]Credit, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getCreditByOwner", common.HexToAddress(owner))
	if err != nil {
		return nil, err
	}
	credits := *abi.ConvertType(out[0], new([]Credit)).(*[]Credit)
	return credits, nil
}

// Rate calls getRate(tokenId).
func (c *EthContract) Rate(ctx context.Context, tokenID *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getRate", tokenID); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// SafeTransferFrom sends safeTransferFrom(from, to, tokenId) signed by the
// service key and blocks until the transaction is mined.
func (c *EthContract) SafeTransferFrom(ctx context.Context, from, to string, tokenID *big.Int) (*types.Receipt, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorized transactor: %w", err)
	}
	auth.Context = ctx

	tx, err := c.contract.Transact(auth, "safeTransferFrom", common.HexToAddress(from), common.HexToAddress(to), tokenID)
	if err != nil {
		return nil, err
	}
	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionFailed, tx.Hash().Hex())
	}
	return receipt, nil
}
