package service

import (
	"crypto/rand"
	"math/big"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

const orderCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type CodeGenerator func() (string, error)

func RandomOrderCode() (string, error) {
	max := big.NewInt(int64(len(orderCodeAlphabet)))
	b := make([]byte, models.OrderCodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = orderCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
