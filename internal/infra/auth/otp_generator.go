package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
)

type numericCodeGenerator struct {
	min  *big.Int
	span *big.Int
}

// NewCodeGenerator returns a generator of fixed-length numeric codes without a leading zero,
// so a 6-digit code is drawn uniformly from 100000-999999.
func NewCodeGenerator(cfg *config.Config) service.CodeGenerator {
	length := 6
	if cfg != nil && cfg.OTP != nil && cfg.OTP.Length > 0 {
		length = cfg.OTP.Length
	}

	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	hi := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	return &numericCodeGenerator{
		min:  lo,
		span: new(big.Int).Sub(hi, lo),
	}
}

func (g *numericCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, g.span)
	if err != nil {
		return "", errors.Wrap(err, "failed to read random code")
	}

	return strconv.FormatInt(n.Add(n, g.min).Int64(), 10), nil
}
