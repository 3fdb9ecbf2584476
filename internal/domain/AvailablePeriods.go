package domain

// AvailablePeriods representa os períodos mensais disponíveis no armazenamento
type AvailablePeriods struct {
	Periods []string `json:"periods"` // Rótulos em ordem cronológica (ex: Janeiro 2024)
	Keys    []string `json:"keys"`    // Chaves de armazenamento na mesma ordem (ex: janeiro_24)
	Years   []int    `json:"years"`   // Lista de anos únicos disponíveis
}

// NewAvailablePeriods monta a resposta a partir de períodos já ordenados
func NewAvailablePeriods(periods []Period) *AvailablePeriods {
	available := &AvailablePeriods{
		Periods: make([]string, 0, len(periods)),
		Keys:    make([]string, 0, len(periods)),
		Years:   make([]int, 0),
	}

	seenYears := make(map[int]bool)
	for _, period := range periods {
		available.Periods = append(available.Periods, period.Label())
		available.Keys = append(available.Keys, period.Key())
		if !seenYears[period.Year] {
			seenYears[period.Year] = true
			available.Years = append(available.Years, period.Year)
		}
	}

	return available
}
