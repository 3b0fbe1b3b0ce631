package domain

import "strings"

// MinWordLength is the minimum accepted submission length
const MinWordLength = 3

// ValidateWord checks a submission against the current prompt and the words
// already played this turn. The word must already be normalized (trimmed and
// lower-cased). Checks run in order and the first failure wins.
func ValidateWord(word, prompt string, turnWords map[string]struct{}) error {
	if word == "" {
		return ErrEmptyWord
	}

	if _, used := turnWords[word]; used {
		return ErrWordAlreadyUsed
	}

	if !strings.Contains(word, strings.ToLower(prompt)) {
		return &MissingPromptError{Prompt: prompt}
	}

	if len(word) < MinWordLength {
		return ErrWordTooShort
	}

	return nil
}
