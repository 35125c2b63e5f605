package utils

import (
	"crypto/rand"
	"math/big"
)

const couponCodeLen = 8

const couponCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateCouponCode returns a random 8-character alphanumeric coupon
// code, uppercase as the store displays them.
func GenerateCouponCode() string {
	out := make([]byte, couponCodeLen)
	max := big.NewInt(int64(len(couponCodeCharset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = 'A'
			continue
		}
		out[i] = couponCodeCharset[idx.Int64()]
	}
	return string(out)
}
