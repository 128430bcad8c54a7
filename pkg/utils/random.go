package utils

import (
	"crypto/rand"
	"math/big"
)

const codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode 生成指定长度的随机短码。
// 使用 crypto/rand，避免可预测的短码被枚举。
func RandomCode(length int) (string, error) {
	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(codeCharset)))

	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", err
		}
		result[i] = codeCharset[idx.Int64()]
	}

	return string(result), nil
}
