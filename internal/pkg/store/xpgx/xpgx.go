// Package xpgx is a thin squirrel-aware wrapper around a pgx pool. The x
// variants take a squirrel builder, render it and scan results with scany.
package xpgx

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Pool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error)
	Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error
	Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error
	// InTx runs fn inside one transaction, committing on nil and rolling
	// back otherwise. Calling InTx on the Pool passed to fn reuses the
	// open transaction.
	InTx(ctx context.Context, fn func(Pool) error) error
}

func NewPool(ctx context.Context, dsn string) (Pool, error) {
	p, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err = p.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return &pool{p}, nil
}

type pool struct {
	pool *pgxpool.Pool
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

func (p *pool) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return p.pool.Exec(ctx, sql, args...)
}

func (p *pool) Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Get(ctx, p.pool, dest, sql, args...)
}

func (p *pool) Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Select(ctx, p.pool, dest, sql, args...)
}

func (p *pool) InTx(ctx context.Context, fn func(Pool) error) error {
	pgxTx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	if err = fn(&tx{pgxTx}); err != nil {
		if rbErr := pgxTx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx.Rollback: %v (after: %w)", rbErr, err)
		}
		return err
	}

	return pgxTx.Commit(ctx)
}

type tx struct {
	tx pgx.Tx
}

func (t *tx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

func (t *tx) Execx(ctx context.Context, query squirrel.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}
	return t.tx.Exec(ctx, sql, args...)
}

func (t *tx) Getx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Get(ctx, t.tx, dest, sql, args...)
}

func (t *tx) Selectx(ctx context.Context, dest interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Select(ctx, t.tx, dest, sql, args...)
}

func (t *tx) InTx(_ context.Context, fn func(Pool) error) error {
	return fn(t)
}
