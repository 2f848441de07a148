package main

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
	hf "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const (
	defaultModel     = "gpt-3.5-turbo"
	fallbackEncoding = "cl100k_base"
)

// Encoder maps a text string to a count of discrete tokens.
type Encoder interface {
	CountTokens(text string) int
}

// --- Tiktoken Encoder ---

type tiktokenEncoder struct {
	tke *tiktoken.Tiktoken
}

func (e *tiktokenEncoder) CountTokens(text string) int {
	return len(e.tke.EncodeOrdinary(text))
}

// --- HuggingFace (sugarme) Encoder ---

type hfEncoder struct {
	htk *hf.Tokenizer
}

func (e *hfEncoder) CountTokens(text string) int {
	en, err := e.htk.EncodeSingle(text)
	if err != nil {
		return 0
	}
	return len(en.Tokens)
}

// TokenCounter binds a model name to its resolved encoder. Create one per
// counting session; it is immutable afterwards.
type TokenCounter struct {
	Model string
	enc   Encoder
}

// NewTokenCounter resolves model to a tiktoken encoding. An unrecognized
// model name silently falls back to cl100k_base rather than failing; a
// non-nil error is returned only when the fallback encoding itself cannot
// be loaded.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tke, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s encoding: %w", fallbackEncoding, err)
		}
	}
	return &TokenCounter{Model: model, enc: &tiktokenEncoder{tke: tke}}, nil
}

// NewTokenCounterFromFile loads a local HuggingFace tokenizer.json and wraps
// it in a TokenCounter. The file path doubles as the model identifier in
// results.
func NewTokenCounterFromFile(path string) (*TokenCounter, error) {
	htk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer from %s: %w", path, err)
	}
	return &TokenCounter{Model: path, enc: &hfEncoder{htk: htk}}, nil
}

// CountText returns the number of tokens in text. Empty text is zero tokens.
// Deterministic for a given counter and text.
func (c *TokenCounter) CountText(text string) int {
	if text == "" {
		return 0
	}
	return c.enc.CountTokens(text)
}
