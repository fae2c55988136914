package repository

import (
	"context"
	"errors"
	"fmt"
)

// HookFunc is one stage of the write pipeline. It may return a modified entity.
type HookFunc[T any] func(ctx context.Context, entity T) (T, error)

// Hooks holds the optional pre- and post-processing stages of a repository.
// A nil stage is a no-op.
type Hooks[T any] struct {
	Consist      HookFunc[T] // runs before BeforeInsert and BeforeUpdate
	BeforeInsert HookFunc[T]
	AfterInsert  HookFunc[T]
	BeforeUpdate HookFunc[T]
	AfterUpdate  HookFunc[T]
	BeforeDelete HookFunc[T]
	AfterDelete  HookFunc[T]
}

func (h Hooks[T]) RunBeforeInsert(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"consist", h.Consist}, stage[T]{"before_insert", h.BeforeInsert})
}

func (h Hooks[T]) RunAfterInsert(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"after_insert", h.AfterInsert})
}

func (h Hooks[T]) RunBeforeUpdate(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"consist", h.Consist}, stage[T]{"before_update", h.BeforeUpdate})
}

func (h Hooks[T]) RunAfterUpdate(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"after_update", h.AfterUpdate})
}

func (h Hooks[T]) RunBeforeDelete(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"before_delete", h.BeforeDelete})
}

func (h Hooks[T]) RunAfterDelete(ctx context.Context, entity T) (T, error) {
	return runStages(ctx, entity, stage[T]{"after_delete", h.AfterDelete})
}

type stage[T any] struct {
	name string
	fn   HookFunc[T]
}

func runStages[T any](ctx context.Context, entity T, stages ...stage[T]) (T, error) {
	for _, s := range stages {
		if s.fn == nil {
			continue
		}

		next, err := s.fn(ctx, entity)
		if err != nil {
			var empty T
			return empty, errors.Join(fmt.Errorf("%w: %s", ErrHookFailed, s.name), err)
		}

		entity = next
	}

	return entity, nil
}
