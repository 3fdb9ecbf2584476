package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// monthNumbers converte o nome do mês em português para o número do mês
var monthNumbers = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"março":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// A chave guarda só dois dígitos do ano, então apenas o século 2000 é representável
const (
	minPeriodYear = 2000
	maxPeriodYear = 2099
)

// Period identifica um mês de vendas pelo nome do mês e pelo ano.
// A chave persistida segue a convenção "<mes>_<aa>" (ex: janeiro_24) e o
// rótulo exibido segue "Mes Ano" (ex: Janeiro 2024).
type Period struct {
	Month string `json:"month"` // nome do mês em minúsculas
	Year  int    `json:"year"`  // ano com quatro dígitos
}

// ParsePeriodKey interpreta uma chave no formato "<mes>_<aa>"
func ParsePeriodKey(key string) (Period, error) {
	parts := strings.Split(strings.TrimSpace(key), "_")
	if len(parts) != 2 || parts[0] == "" {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, key)
	}

	yy := parts[1]
	if len(yy) != 2 || !isDigits(yy) {
		return Period{}, fmt.Errorf("%w: ano deve ter 2 dígitos em %q", ErrInvalidPeriodKey, key)
	}

	year, _ := strconv.Atoi(yy)

	return Period{Month: strings.ToLower(parts[0]), Year: minPeriodYear + year}, nil
}

// ParsePeriodLabel interpreta um rótulo no formato "Mes Ano" (ex: Março 2025)
func ParsePeriodLabel(label string) (Period, error) {
	parts := strings.Fields(label)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, label)
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil || !isDigits(parts[1]) {
		return Period{}, fmt.Errorf("%w: ano inválido em %q", ErrInvalidPeriodKey, label)
	}
	if year < 100 {
		year += minPeriodYear
	}
	if year < minPeriodYear || year > maxPeriodYear {
		return Period{}, fmt.Errorf("%w: ano fora de %d-%d em %q", ErrInvalidPeriodKey, minPeriodYear, maxPeriodYear, label)
	}

	return Period{Month: strings.ToLower(parts[0]), Year: year}, nil
}

// ParsePeriod aceita tanto a chave (janeiro_24) quanto o rótulo (Janeiro 2024)
func ParsePeriod(value string) (Period, error) {
	if strings.Contains(value, "_") {
		return ParsePeriodKey(value)
	}
	return ParsePeriodLabel(value)
}

// PeriodFromFilename extrai o período de um arquivo nomeado como "<mes>_<aa>.<ext>"
func PeriodFromFilename(name string) (Period, error) {
	base := filepath.Base(name)
	return ParsePeriodKey(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Key retorna a chave de armazenamento do período (ex: janeiro_24)
func (p Period) Key() string {
	return fmt.Sprintf("%s_%02d", p.Month, p.Year%100)
}

// Label retorna o rótulo legível do período (ex: Janeiro 2024)
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", cases.Title(language.BrazilianPortuguese).String(p.Month), p.Year)
}

// MonthNumber retorna o número do mês ou 0 quando o nome não é reconhecido
func (p Period) MonthNumber() int {
	return monthNumbers[p.Month]
}

// Order retorna a posição cronológica do período (ano*100 + mês)
func (p Period) Order() int {
	return p.Year*100 + p.MonthNumber()
}

func (p Period) String() string {
	return p.Label()
}

// SortPeriods ordena cronologicamente; meses desconhecidos ficam antes dos meses do mesmo ano
func SortPeriods(periods []Period) {
	sort.SliceStable(periods, func(i, j int) bool {
		if periods[i].Order() != periods[j].Order() {
			return periods[i].Order() < periods[j].Order()
		}
		return periods[i].Key() < periods[j].Key()
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
