package middleware

import "context"

type operatorKey struct{}

// Operator is the authenticated caller of an admin route.
type Operator struct {
	Name string
	Role string
}

func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

func OperatorFrom(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorKey{}).(Operator)
	return op, ok
}
