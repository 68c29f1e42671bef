package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type slugChecker func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

// uniqueSlug slugifies text and appends -2, -3, ... until the slug is free.
// exclude is the id of the row being renamed, uuid.Nil on create.
func uniqueSlug(ctx context.Context, text string, exclude uuid.UUID, taken slugChecker) (string, error) {
	base := slug.Make(text)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 2; ; i++ {
		exists, err := taken(ctx, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
