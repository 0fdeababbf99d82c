package rules

import "context"

type Rule interface {
	ID() string
	Help() string
	Inputs() []string
	Dependencies() []string
	Getwd() string
	Execute(ctx context.Context) error
}
