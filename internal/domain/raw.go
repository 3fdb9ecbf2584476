package domain

import "strings"

// RawRow é uma linha decodificada do arquivo, ainda sem significado.
// Columns é compartilhado entre todas as linhas do mesmo arquivo.
type RawRow struct {
	Columns []string
	Values  []string
}

// Get busca o valor pelo nome da coluna, ignorando caixa e espaços
func (r RawRow) Get(column string) (string, bool) {
	for i, name := range r.Columns {
		if strings.EqualFold(strings.TrimSpace(name), column) && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return "", false
}

// RawBatch é o resultado do parser para uma codificação aceita
type RawBatch struct {
	Encoding     string
	Header       []string
	Rows         []RawRow
	SkippedLines int
}

// HasColumn informa se o cabeçalho contém a coluna (ignorando caixa e espaços)
func (b *RawBatch) HasColumn(column string) bool {
	for _, name := range b.Header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			return true
		}
	}
	return false
}
