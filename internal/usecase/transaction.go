package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Transaction runs a list of steps in order. When step i fails, the
// compensations registered for steps 0..i-1 run in reverse order. It is a
// saga over independent systems, not a database transaction.
type Transaction struct {
	operations    []Operation
	compensations []Compensation
}

type Operation struct {
	Name string
	Fn   func(context.Context) error
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddOperation appends a step. Its compensation, if any, must be added with
// AddCompensation before the next AddOperation call.
func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{name, fn})
	for len(t.compensations) < len(t.operations)-1 {
		t.compensations = append(t.compensations, Compensation{})
	}
}

func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	t.compensations = append(t.compensations, Compensation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (compensated %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	for i := failedAtIndex - 1; i >= 0; i-- {
		if i >= len(t.compensations) || t.compensations[i].Fn == nil {
			continue
		}
		comp := t.compensations[i]
		if err := comp.Fn(ctx); err != nil {
			logrus.WithError(err).WithField("compensation", comp.Name).
				Error("compensation failed, state may be inconsistent")
		}
	}
}
