package ingestion

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var errUnparsedDate = errors.New("data não reconhecida")

// DateAttempt é uma estratégia da cadeia de leitura de datas
type DateAttempt struct {
	Name  string
	Parse func(value string, loc *time.Location) (time.Time, error)
}

// DateChain tenta as estratégias em ordem e para na primeira que funcionar
type DateChain []DateAttempt

// DefaultDateChain: inferência com dia primeiro, dois formatos explícitos e por fim uma busca permissiva
var DefaultDateChain = DateChain{
	{Name: "dia-primeiro", Parse: parseDayFirst},
	{Name: "02/01/2006 15:04:05", Parse: layoutAttempt("02/01/2006 15:04:05")},
	{Name: "02/01/2006", Parse: layoutAttempt("02/01/2006")},
	{Name: "permissivo", Parse: parsePermissive},
}

// Parse devolve o instante lido ou false quando nenhuma estratégia reconhece o valor
func (c DateChain) Parse(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, attempt := range c {
		parsed, err := attempt.Parse(value, loc)
		if err == nil {
			return parsed.In(loc), true
		}
	}

	return time.Time{}, false
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2/1/06",
}

// parseDayFirst infere o formato; quando o ano vem na frente usa ISO, senão dia/mês/ano
func parseDayFirst(value string, loc *time.Location) (time.Time, error) {
	layouts := dayFirstLayouts
	if len(value) >= 4 && isDigits(value[:4]) {
		layouts = isoLayouts
	}

	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, errUnparsedDate
}

func layoutAttempt(layout string) func(value string, loc *time.Location) (time.Time, error) {
	return func(value string, loc *time.Location) (time.Time, error) {
		return time.ParseInLocation(layout, value, loc)
	}
}

var permissiveDate = regexp.MustCompile(`(\d{1,4})[/.\-](\d{1,2})[/.\-](\d{1,4})(?:\D+(\d{1,2})[:h](\d{2})(?::(\d{2}))?)?`)

// parsePermissive procura uma data em qualquer parte do texto
func parsePermissive(value string, loc *time.Location) (time.Time, error) {
	match := permissiveDate.FindStringSubmatch(value)
	if match == nil {
		return time.Time{}, errUnparsedDate
	}

	var day, month, year int
	if len(match[1]) == 4 {
		year, month, day = atoi(match[1]), atoi(match[2]), atoi(match[3])
	} else {
		day, month, year = atoi(match[1]), atoi(match[2]), atoi(match[3])
		if len(match[3]) <= 2 {
			year += 2000
		}
	}

	hour, minute, second := atoi(match[4]), atoi(match[5]), atoi(match[6])

	parsed := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if parsed.Year() != year || int(parsed.Month()) != month || parsed.Day() != day ||
		parsed.Hour() != hour || parsed.Minute() != minute {
		return time.Time{}, errUnparsedDate
	}

	return parsed, nil
}

func atoi(value string) int {
	if value == "" {
		return 0
	}
	n, _ := strconv.Atoi(value)
	return n
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
