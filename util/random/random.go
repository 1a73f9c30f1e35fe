// Package random provides utilities for generating random strings.
package random

import (
	"crypto/rand"
	"math/big"
)

var (
	numSeq   [10]rune
	lowerSeq [26]rune
	upperSeq [26]rune
	allSeq   [62]rune
	// saltSeq is the alphabet of crypt(3) salts.
	saltSeq [64]rune
)

func init() {
	for i := 0; i < 10; i++ {
		numSeq[i] = rune('0' + i)
	}
	for i := 0; i < 26; i++ {
		lowerSeq[i] = rune('a' + i)
		upperSeq[i] = rune('A' + i)
	}

	copy(allSeq[:], numSeq[:])
	copy(allSeq[len(numSeq):], lowerSeq[:])
	copy(allSeq[len(numSeq)+len(lowerSeq):], upperSeq[:])

	saltSeq[0] = '.'
	saltSeq[1] = '/'
	copy(saltSeq[2:], allSeq[:])
}

// Seq generates a random alphanumeric string of length n.
func Seq(n int) string {
	return pick(allSeq[:], n)
}

// Salt generates a random string of length n over the crypt(3) salt alphabet.
func Salt(n int) string {
	return pick(saltSeq[:], n)
}

func pick(seq []rune, n int) string {
	runes := make([]rune, n)
	max := big.NewInt(int64(len(seq)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		runes[i] = seq[idx.Int64()]
	}
	return string(runes)
}
