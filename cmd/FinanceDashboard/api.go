package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sebuszqo/FinanceDashboard/internal/finance/client"
	"github.com/sebuszqo/FinanceDashboard/internal/finance/dashboard"
	"github.com/sebuszqo/FinanceDashboard/internal/logger"
)

// cliOwner labels the view of the client commands. The server scopes every request
// by the token, so the value never reaches the store.
const cliOwner = "me"

var errMissingAPIToken = errors.New("API_TOKEN is not set: mint one with the token command")

func apiClient() (*client.Client, error) {
	if cfg.APIToken == "" {
		return nil, errMissingAPIToken
	}
	return client.New(cfg.APIURL, cfg.APIToken), nil
}

func apiView(ctx context.Context, pageSize int) (*dashboard.View, error) {
	c, err := apiClient()
	if err != nil {
		return nil, err
	}
	return dashboard.NewView(c, cliOwner, pageSize, logger.FromContext(ctx)), nil
}

func describe(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w (API %s)", err, cfg.APIURL)
	}
	return err
}
