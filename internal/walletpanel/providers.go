package walletpanel

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-resty/resty/v2"
)

// RPCAccountProvider reads the node's first unlocked account via eth_accounts
type RPCAccountProvider struct {
	client *rpc.Client
}

func NewRPCAccountProvider(client *rpc.Client) *RPCAccountProvider {
	return &RPCAccountProvider{client: client}
}

func (p *RPCAccountProvider) Account(ctx context.Context) (*common.Address, error) {
	var accounts []common.Address
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return &accounts[0], nil
}

// APIUpdater sends PUT /user/walletUpdate with the session cookie
type APIUpdater struct {
	client *resty.Client
}

func NewAPIUpdater(baseURL, token string) *APIUpdater {
	client := resty.New().SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	if token != "" {
		client.SetCookie(&http.Cookie{Name: "token", Value: token})
	}
	return &APIUpdater{client: client}
}

func (u *APIUpdater) UpdateAddress(ctx context.Context, address *string) error {
	resp, err := u.client.R().
		SetContext(ctx).
		SetBody(map[string]*string{"wallet_address": address}).
		Put("/user/walletUpdate")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("wallet update: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
