package mocks

import (
	"context"
	"rhx/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type txRunnerImpl struct {
}

// WithTx implements postgres.TxRunner. The callback runs with a nil
// transaction handle; repository calls inside it are expected to be mocked.
func (t *txRunnerImpl) WithTx(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

func NewTxRunner() postgres.TxRunner {
	return &txRunnerImpl{}
}
