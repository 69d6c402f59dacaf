package utils

import "crypto/rand"

const vipCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// VIPCodeLength is the fixed length of generated VIP codes.
const VIPCodeLength = 8

// NewVIPCode returns an 8-character uppercase alphanumeric code.
func NewVIPCode() (string, error) {
	buf := make([]byte, VIPCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = vipCodeAlphabet[int(b)%len(vipCodeAlphabet)]
	}
	return string(buf), nil
}
