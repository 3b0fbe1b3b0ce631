package domain

import "math/rand"

const promptLetters = "abcdefghijklmnopqrstuvwxyz"

// NewPrompt returns the letter fragment for one turn: a lowercase string of
// 2 to 4 letters, each drawn uniformly from the alphabet.
func NewPrompt() string {
	n := 2 + rand.Intn(3)
	b := make([]byte, n)
	for i := range b {
		b[i] = promptLetters[rand.Intn(len(promptLetters))]
	}
	return string(b)
}
