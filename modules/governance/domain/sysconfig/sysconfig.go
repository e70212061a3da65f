// Package sysconfig models operator-tunable settings that change only
// through the change-request workflow.
package sysconfig

import "context"

type Setting struct {
	Key   string
	Value string
}

type Repository interface {
	List(ctx context.Context) ([]*Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
}
