package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength - длина кода подтверждения
const OTPLength = 6

// GenerateNumericOTP - n-значный код из crypto/rand, с ведущими нулями
func GenerateNumericOTP(n int) (string, error) {
	if n <= 0 {
		n = OTPLength
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	num, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	format := fmt.Sprintf("%%0%dd", n)
	return fmt.Sprintf(format, num.Int64()), nil
}
