// Package ingestion transforma o arquivo bruto do PDV em vendas canônicas
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// DefaultDelimiter é o separador dos arquivos exportados pelo PDV
const DefaultDelimiter = ';'

var (
	errMissingHeader = errors.New("cabeçalho ausente")
	errNoDataRows    = errors.New("nenhuma linha de dados aproveitável")
)

// Parser lê o arquivo tentando cada codificação em ordem, sem misturar codificações
type Parser struct {
	delimiter rune
	encodings []Encoding
}

// NewParser cria um parser com o separador e a cadeia de codificações informados
func NewParser(delimiter rune, encodings []Encoding) *Parser {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Parser{
		delimiter: delimiter,
		encodings: encodings,
	}
}

// Encodings retorna os nomes das codificações na ordem de tentativa
func (p *Parser) Encodings() []string {
	names := make([]string, len(p.encodings))
	for i, encoding := range p.encodings {
		names[i] = encoding.Name
	}
	return names
}

// Delimiter retorna o separador de colunas
func (p *Parser) Delimiter() rune {
	return p.delimiter
}

// Parse devolve as linhas da primeira codificação que ler o cabeçalho e ao menos uma linha
func (p *Parser) Parse(raw []byte) (*domain.RawBatch, error) {
	attemptErrors := make([]error, 0, len(p.encodings))

	for _, encoding := range p.encodings {
		batch, err := p.parseWith(encoding, raw)
		if err != nil {
			attemptErrors = append(attemptErrors, fmt.Errorf("%s: %w", encoding.Name, err))
			continue
		}
		return batch, nil
	}

	return nil, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, errors.Join(attemptErrors...))
}

func (p *Parser) parseWith(encoding Encoding, raw []byte) (*domain.RawBatch, error) {
	text, err := encoding.Decode(raw)
	if err != nil {
		return nil, err
	}

	lines := splitLines(text)

	header, next, err := p.readHeader(lines)
	if err != nil {
		return nil, err
	}

	batch := &domain.RawBatch{
		Encoding: encoding.Name,
		Header:   header,
		Rows:     make([]domain.RawRow, 0),
	}

	for _, line := range lines[next:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		record, err := p.readLine(line)
		if err != nil {
			batch.SkippedLines++
			continue
		}
		if isBlank(record) {
			continue
		}
		if len(record) != len(header) {
			batch.SkippedLines++
			continue
		}

		batch.Rows = append(batch.Rows, domain.RawRow{
			Columns: header,
			Values:  trimAll(record),
		})
	}

	if len(batch.Rows) == 0 {
		return nil, errNoDataRows
	}

	return batch, nil
}

// readHeader retorna a primeira linha não vazia e o índice da linha seguinte
func (p *Parser) readHeader(lines []string) ([]string, int, error) {
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := p.readLine(line)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", errMissingHeader, err)
		}
		if isBlank(record) {
			continue
		}
		return trimAll(record), i + 1, nil
	}
	return nil, 0, errMissingHeader
}

// readLine lê uma única linha física: aspas sem fechamento terminam no fim da linha
// e não engolem as linhas seguintes
func (p *Parser) readLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, value := range record {
		out[i] = strings.TrimSpace(value)
	}
	return out
}
