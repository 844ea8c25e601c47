package router

import (
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"
)

// DefaultPrefix is the text command prefix used until the owner changes it
const DefaultPrefix = "*"

// Prefix holds the process-wide text command prefix
type Prefix struct {
	mu    sync.RWMutex
	value string
}

// NewPrefix creates a prefix holder, falling back to DefaultPrefix when initial is not valid
func NewPrefix(initial string) *Prefix {
	if ValidatePrefix(initial) != nil {
		initial = DefaultPrefix
	}
	return &Prefix{value: initial}
}

func (p *Prefix) Get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

func (p *Prefix) Set(value string) error {
	if err := ValidatePrefix(value); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	return nil
}

// ValidatePrefix accepts exactly one printable, non-space character
func ValidatePrefix(value string) error {
	r, size := utf8.DecodeRuneInString(value)
	if size == 0 || size != len(value) || r == utf8.RuneError || unicode.IsSpace(r) || !unicode.IsPrint(r) {
		return fmt.Errorf("prefix must be a single character, got %q", value)
	}
	return nil
}
