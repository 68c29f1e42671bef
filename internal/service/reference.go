package service

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ReferenceLength   = 5
)

// ReferenceChecker reports whether an order reference is already taken.
type ReferenceChecker func(ctx context.Context, ref string) (bool, error)

// GenerateReference draws references until one is free. There is no attempt
// cap; the loop ends when ctx is cancelled.
func GenerateReference(ctx context.Context, taken ReferenceChecker) (string, error) {
	return generateReference(ctx, rand.Reader, taken)
}

func generateReference(ctx context.Context, src io.Reader, taken ReferenceChecker) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ref, err := drawReference(src)
		if err != nil {
			return "", err
		}
		exists, err := taken(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
}

func drawReference(src io.Reader) (string, error) {
	max := big.NewInt(int64(len(referenceAlphabet)))
	buf := make([]byte, ReferenceLength)
	for i := range buf {
		n, err := rand.Int(src, max)
		if err != nil {
			return "", err
		}
		buf[i] = referenceAlphabet[n.Int64()]
	}
	return string(buf), nil
}
