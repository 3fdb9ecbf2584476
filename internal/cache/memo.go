// Package cache guarda resultados de ingestão e de consultas por chave de conteúdo
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Stats expõe o uso do cache para o endpoint de status
type Stats struct {
	Entries       int    `json:"entries"`
	Hits          uint64 `json:"hits"`
	Misses        uint64 `json:"misses"`
	Invalidations uint64 `json:"invalidations"`
}

// Memo memoiza resultados por chave. Erros nunca são guardados.
type Memo[V any] struct {
	mu            sync.Mutex
	entries       map[string]V
	generation    uint64
	hits          uint64
	misses        uint64
	invalidations uint64
}

func NewMemo[V any]() *Memo[V] {
	return &Memo[V]{
		entries: make(map[string]V),
	}
}

// Key gera a chave a partir das partes que determinam o resultado
func Key(parts ...string) string {
	hash := sha256.New()
	for _, part := range parts {
		hash.Write([]byte(part))
		hash.Write([]byte{0})
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// ContentKey combina o hash do conteúdo bruto com os parâmetros da chamada
func ContentKey(content []byte, parts ...string) string {
	sum := sha256.Sum256(content)
	return Key(append([]string{hex.EncodeToString(sum[:])}, parts...)...)
}

// Do retorna o valor guardado ou executa compute. O segundo retorno indica acerto no cache.
// Um resultado calculado durante uma invalidação é descartado.
func (m *Memo[V]) Do(key string, compute func() (V, error)) (V, bool, error) {
	m.mu.Lock()
	if value, ok := m.entries[key]; ok {
		m.hits++
		m.mu.Unlock()
		return value, true, nil
	}
	m.misses++
	generation := m.generation
	m.mu.Unlock()

	value, err := compute()
	if err != nil {
		var zero V
		return zero, false, err
	}

	m.mu.Lock()
	if generation == m.generation {
		m.entries[key] = value
	}
	m.mu.Unlock()

	return value, false, nil
}

// InvalidateAll descarta todas as entradas e retorna quantas existiam
func (m *Memo[V]) InvalidateAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := len(m.entries)
	m.entries = make(map[string]V)
	m.generation++
	m.invalidations++

	return removed
}

func (m *Memo[V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		Entries:       len(m.entries),
		Hits:          m.hits,
		Misses:        m.misses,
		Invalidations: m.invalidations,
	}
}
